package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	interfaces "github.com/sheikh-saqib/statement-ledger/internal/interfaces"
)

// AdvisoryLocker serialises per-user work across service instances. Each unit of
// work is one transaction holding pg_advisory_xact_lock for the user; the lock is
// released on commit or rollback and the work runs on the same connection.
type AdvisoryLocker struct {
	db          *sql.DB
	lockTimeout time.Duration
}

// NewAdvisoryLocker returns a locker that gives up waiting for a user lock after
// lockTimeout. Zero waits as long as the request context allows.
func NewAdvisoryLocker(db *sql.DB, lockTimeout time.Duration) *AdvisoryLocker {
	return &AdvisoryLocker{db: db, lockTimeout: lockTimeout}
}

func (a *AdvisoryLocker) WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context) error) (err error) {
	const op = "storage.postgres.AdvisoryLocker.WithUserLock"

	dbTx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	if a.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", a.lockTimeout.Milliseconds())
		if _, err = dbTx.ExecContext(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if _, err = dbTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return fmt.Errorf("%s: lock user %s: %w", op, userID, err)
	}

	if err = fn(withTx(ctx, dbTx)); err != nil {
		return err
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

var _ interfaces.UserLocker = (*AdvisoryLocker)(nil)
