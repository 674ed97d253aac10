package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/statement-ledger/internal/interfaces"
	"github.com/sheikh-saqib/statement-ledger/internal/models"
	"github.com/sheikh-saqib/statement-ledger/internal/storage"
)

// MemoryStatementStore is an in-memory implementation of interfaces.StatementStore.
// Operations are kept in append order; byID and byUser index into that slice.
type MemoryStatementStore struct {
	mu         sync.RWMutex
	operations []models.Operation
	byID       map[string]int
	byUser     map[string][]int
}

// NewMemoryStatementStore creates and returns an empty MemoryStatementStore.
func NewMemoryStatementStore() *MemoryStatementStore {
	return &MemoryStatementStore{
		operations: make([]models.Operation, 0),
		byID:       make(map[string]int),
		byUser:     make(map[string][]int),
	}
}

// Append stores the operation as given and returns it unchanged.
func (m *MemoryStatementStore) Append(ctx context.Context, op models.Operation) (models.Operation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := len(m.operations)
	m.operations = append(m.operations, op)
	m.byID[op.ID] = idx
	m.byUser[op.UserID] = append(m.byUser[op.UserID], idx)
	return op, nil
}

// FindByID does not filter by owner.
func (m *MemoryStatementStore) FindByID(ctx context.Context, id string) (models.Operation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.byID[id]
	if !ok {
		return models.Operation{}, storage.ErrNotFound
	}
	return m.operations[idx], nil
}

// ListByUser returns a copy of the user's operations in creation order.
func (m *MemoryStatementStore) ListByUser(ctx context.Context, userID string) ([]models.Operation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	indexes := m.byUser[userID]
	result := make([]models.Operation, 0, len(indexes))
	for _, idx := range indexes {
		result = append(result, m.operations[idx])
	}
	return result, nil
}

// Compile-time check: ensure MemoryStatementStore implements StatementStore interface
var _ interfaces.StatementStore = (*MemoryStatementStore)(nil)
