package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/statement-ledger/internal/models"
	"github.com/sheikh-saqib/statement-ledger/internal/storage"
)

func TestUserDirectoryLookups(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(models.User{ID: "u1", Name: "User Name", Email: "UserName@Email.com"})

	byID, err := dir.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "User Name", byID.Name)

	byEmail, err := dir.FindUserByEmail(ctx, " username@email.com ")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	_, err = dir.FindUserByID(ctx, "notId")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = dir.FindUserByEmail(ctx, "wrong@email.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserDirectoryAddReplacesEmail(t *testing.T) {
	ctx := context.Background()
	dir := NewUserDirectory(models.User{ID: "u1", Email: "old@email.com"})

	dir.Add(models.User{ID: "u1", Email: "new@email.com"})

	_, err := dir.FindUserByEmail(ctx, "old@email.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	user, err := dir.FindUserByEmail(ctx, "new@email.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}
