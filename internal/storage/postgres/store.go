package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	interfaces "github.com/sheikh-saqib/statement-ledger/internal/interfaces"
	"github.com/sheikh-saqib/statement-ledger/internal/models"
	"github.com/sheikh-saqib/statement-ledger/internal/storage"
)

type PostgresStatementStore struct {
	db *sql.DB
}

func NewPostgresStatementStore(db *sql.DB) *PostgresStatementStore {
	return &PostgresStatementStore{
		db: db,
	}
}

func (p *PostgresStatementStore) Append(ctx context.Context, op models.Operation) (models.Operation, error) {
	const fn = "storage.postgres.Append"
	const query = `INSERT INTO statements (id, user_id, type, amount, description, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := conn(ctx, p.db).ExecContext(ctx, query,
		op.ID, op.UserID, string(op.Type), op.Amount, op.Description, op.CreatedAt, op.UpdatedAt)
	if err != nil {
		return models.Operation{}, fmt.Errorf("%s: %w", fn, err)
	}
	return op, nil
}

func (p *PostgresStatementStore) FindByID(ctx context.Context, id string) (models.Operation, error) {
	const fn = "storage.postgres.FindByID"
	const query = `SELECT id, user_id, type, amount, description, created_at, updated_at
	FROM statements WHERE id = $1`

	// ids are UUID columns; anything else cannot exist
	if _, err := uuid.Parse(id); err != nil {
		return models.Operation{}, storage.ErrNotFound
	}

	op, err := scanOperation(conn(ctx, p.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Operation{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Operation{}, fmt.Errorf("%s: %w", fn, err)
	}
	return op, nil
}

func (p *PostgresStatementStore) ListByUser(ctx context.Context, userID string) ([]models.Operation, error) {
	const fn = "storage.postgres.ListByUser"
	const query = `SELECT id, user_id, type, amount, description, created_at, updated_at
	FROM statements WHERE user_id = $1 ORDER BY created_at, id`

	operations := make([]models.Operation, 0)
	if _, err := uuid.Parse(userID); err != nil {
		return operations, nil
	}

	rows, err := conn(ctx, p.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	defer rows.Close()

	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
		operations = append(operations, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return operations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperation(row rowScanner) (models.Operation, error) {
	var (
		op     models.Operation
		opType string
	)
	if err := row.Scan(&op.ID, &op.UserID, &opType, &op.Amount, &op.Description, &op.CreatedAt, &op.UpdatedAt); err != nil {
		return models.Operation{}, err
	}
	op.Type = models.OperationType(opType)
	op.CreatedAt = op.CreatedAt.UTC()
	op.UpdatedAt = op.UpdatedAt.UTC()
	return op, nil
}

var _ interfaces.StatementStore = (*PostgresStatementStore)(nil)
