package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sheikh-saqib/statement-ledger/internal/interfaces"
	"github.com/sheikh-saqib/statement-ledger/internal/models"
	"github.com/sheikh-saqib/statement-ledger/internal/models/events"
	"github.com/sheikh-saqib/statement-ledger/internal/storage"
)

// Ledger is the only write path for statement operations and the authorized read path for them.
// It holds the statement store, the user directory used for the authorization guard and a
// per-user lock so the solvency guard and the append happen as one step.
type Ledger struct {
	store     interfaces.StatementStore
	users     interfaces.UserDirectory
	locker    interfaces.UserLocker
	cache     interfaces.BalanceCache   // optional
	publisher interfaces.EventPublisher // optional
	logger    *zap.Logger
	clock     *monotonicClock
	newID     func() (string, error)
	sf        singleflight.Group
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLocker replaces the in-process per-user locker, e.g. with one shared across instances.
func WithLocker(locker interfaces.UserLocker) Option {
	return func(l *Ledger) {
		l.locker = locker
	}
}

// WithBalanceCache enables read-through caching of GetBalance results.
func WithBalanceCache(cache interfaces.BalanceCache) Option {
	return func(l *Ledger) {
		l.cache = cache
	}
}

// WithEventPublisher publishes a StatementCreated event after every append.
func WithEventPublisher(publisher interfaces.EventPublisher) Option {
	return func(l *Ledger) {
		l.publisher = publisher
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.clock = newMonotonicClock(now)
	}
}

// WithIDGenerator overrides statement id generation.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// NewLedger creates a Ledger over the given store and user directory.
func NewLedger(store interfaces.StatementStore, users interfaces.UserDirectory, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		users:  users,
		locker: newLocalLocker(),
		logger: zap.NewNop(),
		clock:  newMonotonicClock(time.Now),
		newID:  newStatementID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func newStatementID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// CreateStatement validates and appends a new deposit or withdrawal for userID.
//
// Checks run in a fixed order: operation type and amount, then user existence,
// then (withdrawals only) solvency. Nothing is appended unless every check passes.
func (l *Ledger) CreateStatement(ctx context.Context, userID string, opType models.OperationType, amount decimal.Decimal, description string) (models.Operation, error) {
	if opType != models.OperationTypeDeposit && opType != models.OperationTypeWithdraw {
		return models.Operation{}, fmt.Errorf("%w: %q", ErrInvalidOperationType, opType)
	}
	if amount.Cmp(decimal.Zero) <= 0 {
		return models.Operation{}, &InvalidAmountError{Amount: amount}
	}

	if err := l.ensureUser(ctx, userID); err != nil {
		return models.Operation{}, err
	}

	var saved models.Operation
	err := l.locker.WithUserLock(ctx, userID, func(ctx context.Context) error {
		if opType == models.OperationTypeWithdraw {
			operations, err := l.store.ListByUser(ctx, userID)
			if err != nil {
				return err
			}
			balance := ComputeBalance(operations)
			if amount.GreaterThan(balance) {
				l.logger.Info("withdrawal rejected",
					zap.String("user_id", userID),
					zap.Stringer("amount", amount),
					zap.Stringer("balance", balance),
				)
				return &InsufficientFundsError{
					UserID:  userID,
					Amount:  amount,
					Balance: balance,
				}
			}
		}

		id, err := l.newID()
		if err != nil {
			return fmt.Errorf("generate statement id: %w", err)
		}
		now := l.clock.Now()

		saved, err = l.store.Append(ctx, models.Operation{
			ID:          id,
			UserID:      userID,
			Type:        opType,
			Amount:      amount,
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}

		l.invalidateBalance(ctx, userID)
		return nil
	})
	if err != nil {
		return models.Operation{}, err
	}

	l.publishCreated(ctx, saved)

	return saved, nil
}

// GetBalance returns the user's derived balance and the full operation history.
func (l *Ledger) GetBalance(ctx context.Context, userID string) (models.Balance, error) {
	if err := l.ensureUser(ctx, userID); err != nil {
		return models.Balance{}, err
	}

	if l.cache == nil {
		return l.loadBalance(ctx, userID)
	}

	// The shared fill outlives any single caller; each caller still honours its own ctx.
	fillCtx := context.WithoutCancel(ctx)
	ch := l.sf.DoChan(userID, func() (interface{}, error) {
		return l.readThroughBalance(fillCtx, userID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return models.Balance{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return models.Balance{}, res.Err
	}

	shared := res.Val.(models.Balance)
	statement := make([]models.Operation, len(shared.Statement))
	copy(statement, shared.Statement)
	return models.Balance{Balance: shared.Balance, Statement: statement}, nil
}

func (l *Ledger) readThroughBalance(ctx context.Context, userID string) (models.Balance, error) {
	cached, err := l.cache.Get(ctx, userID)
	if err != nil {
		l.logger.Warn("balance cache read failed", zap.String("user_id", userID), zap.Error(err))
	}
	if err == nil && cached != nil {
		return *cached, nil
	}

	// Filled under the user lock so a concurrent append cannot interleave
	// between the fold and the cache write.
	var balance models.Balance
	err = l.locker.WithUserLock(ctx, userID, func(ctx context.Context) error {
		var err error
		balance, err = l.loadBalance(ctx, userID)
		if err != nil {
			return err
		}
		if err := l.cache.Set(ctx, userID, balance); err != nil {
			l.logger.Warn("balance cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	})
	return balance, err
}

// GetStatementOperation returns one operation owned by userID. An operation owned by
// someone else is reported exactly like a missing one.
func (l *Ledger) GetStatementOperation(ctx context.Context, userID, statementID string) (models.Operation, error) {
	if err := l.ensureUser(ctx, userID); err != nil {
		return models.Operation{}, err
	}

	op, err := l.store.FindByID(ctx, statementID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Operation{}, ErrStatementNotFound
		}
		return models.Operation{}, err
	}
	if op.UserID != userID {
		return models.Operation{}, ErrStatementNotFound
	}
	return op, nil
}

func (l *Ledger) ensureUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUserNotFound
	}
	if _, err := l.users.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user %s: %w", userID, err)
	}
	return nil
}

func (l *Ledger) loadBalance(ctx context.Context, userID string) (models.Balance, error) {
	operations, err := l.store.ListByUser(ctx, userID)
	if err != nil {
		return models.Balance{}, err
	}
	if operations == nil {
		operations = []models.Operation{}
	}
	return models.Balance{
		Balance:   ComputeBalance(operations),
		Statement: operations,
	}, nil
}

func (l *Ledger) invalidateBalance(ctx context.Context, userID string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Invalidate(ctx, userID); err != nil {
		l.logger.Warn("balance cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (l *Ledger) publishCreated(ctx context.Context, op models.Operation) {
	if l.publisher == nil {
		return
	}
	event := events.StatementCreated{
		StatementID: op.ID,
		UserID:      op.UserID,
		Type:        string(op.Type),
		Amount:      op.Amount,
		Description: op.Description,
		OccurredAt:  op.CreatedAt,
	}
	if err := l.publisher.Publish(ctx, events.TopicStatementCreated, event); err != nil {
		l.logger.Warn("publish statement event failed", zap.String("statement_id", op.ID), zap.Error(err))
	}
}

// localLocker keeps one mutex per user for the lifetime of the process.
type localLocker struct {
	muMap map[string]*sync.Mutex // stores the *sync.Mutex for each user
	mapMu sync.Mutex             // protects muMap itself
}

func newLocalLocker() *localLocker {
	return &localLocker{
		muMap: make(map[string]*sync.Mutex),
	}
}

func (l *localLocker) getUserLock(userID string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[userID]; !exists {
		l.muMap[userID] = &sync.Mutex{}
	}
	return l.muMap[userID]
}

func (l *localLocker) WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	mu := l.getUserLock(userID)
	mu.Lock()
	defer mu.Unlock()

	return fn(ctx)
}

var _ interfaces.UserLocker = (*localLocker)(nil)
