package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/statement-ledger/internal/models"
)

// ComputeBalance folds a user's operations into a balance:
// the sum of deposits minus the sum of withdrawals. The input is not modified.
func ComputeBalance(operations []models.Operation) decimal.Decimal {
	balance := decimal.Zero
	for _, op := range operations {
		balance = balance.Add(op.Signed())
	}
	return balance
}
