package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sheikh-saqib/statement-ledger/internal/interfaces"
	"github.com/sheikh-saqib/statement-ledger/internal/models"
)

const keyBalance = "ledger:balance:"

// BalanceCache caches getBalance results in Redis.
type BalanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBalanceCache returns a new BalanceCache.
func NewBalanceCache(rdb *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached balance or nil on a miss.
func (c *BalanceCache) Get(ctx context.Context, userID string) (*models.Balance, error) {
	b, err := c.rdb.Get(ctx, keyBalance+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var balance models.Balance
	if err := json.Unmarshal(b, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// Set stores the balance for the configured TTL.
func (c *BalanceCache) Set(ctx context.Context, userID string, balance models.Balance) error {
	b, err := json.Marshal(balance)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyBalance+userID, b, c.ttl).Err()
}

// Invalidate drops the cached balance after a write.
func (c *BalanceCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, keyBalance+userID).Err()
}

var _ interfaces.BalanceCache = (*BalanceCache)(nil)
