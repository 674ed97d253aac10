package memory

import (
	"context"
	"strings"
	"sync"

	interfaces "github.com/sheikh-saqib/statement-ledger/internal/interfaces"
	"github.com/sheikh-saqib/statement-ledger/internal/models"
	"github.com/sheikh-saqib/statement-ledger/internal/storage"
)

// UserDirectory is a lookup-only in-memory user directory. Add seeds it.
type UserDirectory struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewUserDirectory(users ...models.User) *UserDirectory {
	d := &UserDirectory{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
	for _, u := range users {
		d.Add(u)
	}
	return d
}

// Add registers or replaces a user. Emails are matched case-insensitively.
func (d *UserDirectory) Add(user models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.byID[user.ID]; ok {
		delete(d.byEmail, normalizeEmail(prev.Email))
	}
	d.byID[user.ID] = user
	if user.Email != "" {
		d.byEmail[normalizeEmail(user.Email)] = user.ID
	}
}

func (d *UserDirectory) FindUserByID(ctx context.Context, id string) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.byID[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (d *UserDirectory) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return d.byID[id], nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ interfaces.UserDirectory = (*UserDirectory)(nil)
