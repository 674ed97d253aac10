package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrUserNotFound the referenced user does not resolve in the user directory.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidAmount amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidOperationType operation type is neither deposit nor withdraw.
	ErrInvalidOperationType = errors.New("invalid operation type")

	// ErrInsufficientFunds withdrawal exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStatementNotFound the operation does not exist or belongs to another user.
	ErrStatementNotFound = errors.New("statement not found")
)

// InsufficientFundsError carries the rejected withdrawal and the balance it was checked against.
type InsufficientFundsError struct {
	UserID  string
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: user %s tried to withdraw %s with balance %s",
		ErrInsufficientFunds, e.UserID, e.Amount.String(), e.Balance.String())
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// InvalidAmountError carries the rejected amount.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("%s: got %s", ErrInvalidAmount, e.Amount.String())
}

func (e *InvalidAmountError) Is(target error) bool {
	return target == ErrInvalidAmount
}
