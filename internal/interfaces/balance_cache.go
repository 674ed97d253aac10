package interfaces

import (
	"context"

	"github.com/sheikh-saqib/statement-ledger/internal/models"
)

// BalanceCache stores getBalance results. Get returns (nil, nil) on a miss.
type BalanceCache interface {
	Get(ctx context.Context, userID string) (*models.Balance, error)
	Set(ctx context.Context, userID string, balance models.Balance) error
	Invalidate(ctx context.Context, userID string) error
}
