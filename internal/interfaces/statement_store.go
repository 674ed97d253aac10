package interfaces

import (
	"context"

	"github.com/sheikh-saqib/statement-ledger/internal/models"
)

// StatementStore is the append-only record of all operations.
// Implementations do no validation; FindByID returns storage.ErrNotFound when absent.
type StatementStore interface {
	Append(ctx context.Context, op models.Operation) (models.Operation, error)
	FindByID(ctx context.Context, id string) (models.Operation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Operation, error)
}
