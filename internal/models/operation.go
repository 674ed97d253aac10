package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OperationType is the kind of a statement operation.
type OperationType string

const (
	OperationTypeDeposit  OperationType = "deposit"
	OperationTypeWithdraw OperationType = "withdraw"
)

// ParseOperationType converts raw input into an OperationType.
func ParseOperationType(s string) (OperationType, error) {
	switch t := OperationType(s); t {
	case OperationTypeDeposit, OperationTypeWithdraw:
		return t, nil
	default:
		return "", fmt.Errorf("unknown operation type %q", s)
	}
}

// Operation is one immutable, signed change to a user's balance.
// Once appended to the ledger it is never updated or deleted.
type Operation struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        OperationType   `json:"type"`
	Amount      decimal.Decimal `json:"amount"` // always > 0, sign comes from Type
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Signed returns the amount with the sign implied by the operation type.
func (o Operation) Signed() decimal.Decimal {
	if o.Type == OperationTypeWithdraw {
		return o.Amount.Neg()
	}
	return o.Amount
}
