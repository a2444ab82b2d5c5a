package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users_backend/internal/models"
)

func TestMemoryUserRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &models.User{Email: "user@example.com", VerificationCode: "ABC123"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", byID.Email)

	byEmail, err := repo.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "taken@example.com"}))

	// Уникальный индекс по email, как в Postgres-реализации
	err := repo.Create(ctx, &models.User{Email: "taken@example.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestMemoryUserRepository_UpdateByEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "old@example.com", IsVerified: true}))

	// Смена email вместе с понижением статуса верификации
	updated, err := repo.UpdateByEmail(ctx, "old@example.com", map[string]interface{}{
		"email":       "new@example.com",
		"is_verified": false,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.False(t, updated.IsVerified)

	_, err = repo.FindByEmail(ctx, "old@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.UpdateByEmail(ctx, "missing@example.com", map[string]interface{}{"is_verified": true})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserRepository_SetVerifiedAndDelete(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &models.User{Email: "user@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.SetVerified(ctx, "user@example.com", true))
	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsVerified)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserRepository_FindAllOrdered(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "first@example.com"}))
	require.NoError(t, repo.Create(ctx, &models.User{Email: "second@example.com"}))
	require.NoError(t, repo.Create(ctx, &models.User{Email: "third@example.com"}))

	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	// Порядок стабилен, по возрастанию id
	assert.Equal(t, "first@example.com", users[0].Email)
	assert.Equal(t, "third@example.com", users[2].Email)
}
