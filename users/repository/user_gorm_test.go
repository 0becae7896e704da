package repository

import (
	"context"
	"testing"
	"time"

	"github.com/AzielCF/az-press/core/database"
	"github.com/AzielCF/az-press/users/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *UserGormRepository {
	t.Helper()
	db, err := database.NewMemoryDatabase()
	require.NoError(t, err)
	repo := NewUserGormRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))
	return repo
}

func TestUserGorm_CreateAndLookup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := &domain.User{Username: "ana", Email: "ana@example.com", PasswordHash: "x", Active: true}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)
	assert.Equal(t, domain.RoleReader, u.Role)

	byName, err := repo.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "x", byName.PasswordHash)

	_, err = repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserGorm_Duplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "ana", Email: "a@example.com", PasswordHash: "x"}))
	err := repo.Create(ctx, &domain.User{Username: "ana", Email: "b@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)
}

func TestUserGorm_UpdateKeepsPasswordHash(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := &domain.User{Username: "ana", Email: "a@example.com", PasswordHash: "hash", Active: true}
	require.NoError(t, repo.Create(ctx, u))

	u.DisplayName = "Ana"
	u.PasswordHash = ""
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.DisplayName)
	assert.Equal(t, "hash", got.PasswordHash)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, u.ID, at))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, at.Equal(*got.LastLoginAt))
}
