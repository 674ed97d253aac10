package interfaces

import (
	"context"

	"github.com/sheikh-saqib/statement-ledger/internal/models"
)

// UserDirectory resolves user identities. Lookups return storage.ErrNotFound when absent.
type UserDirectory interface {
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
}
