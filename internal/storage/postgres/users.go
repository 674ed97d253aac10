package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	interfaces "github.com/sheikh-saqib/statement-ledger/internal/interfaces"
	"github.com/sheikh-saqib/statement-ledger/internal/models"
	"github.com/sheikh-saqib/statement-ledger/internal/storage"
)

// UserDirectory reads the users table owned by the user service.
type UserDirectory struct {
	db *sql.DB
}

func NewUserDirectory(db *sql.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) FindUserByID(ctx context.Context, id string) (models.User, error) {
	const op = "storage.postgres.FindUserByID"

	if _, err := uuid.Parse(id); err != nil {
		return models.User{}, storage.ErrNotFound
	}
	user, err := d.findOne(ctx, `SELECT id, name, email, created_at FROM users WHERE id = $1`, id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, err
}

func (d *UserDirectory) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.FindUserByEmail"

	user, err := d.findOne(ctx, `SELECT id, name, email, created_at FROM users WHERE lower(email) = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, err
}

func (d *UserDirectory) findOne(ctx context.Context, query string, arg string) (models.User, error) {
	var user models.User
	err := conn(ctx, d.db).QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, storage.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

var _ interfaces.UserDirectory = (*UserDirectory)(nil)
