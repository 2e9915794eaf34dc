package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"favsvc/internal/auth"
	"favsvc/internal/db"
	apperrors "favsvc/internal/errors"
	"favsvc/internal/repository"
	"favsvc/internal/service"
)

func TestRun(t *testing.T) {
	gormDB, err := db.NewSQLite(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	hasher, err := auth.NewPasswordHasher(auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)
	repo := repository.NewUserRepository(gormDB)
	users := service.NewUserService(repo, hasher)
	ctx := context.Background()

	require.NoError(t, run(ctx, users, "demo", nil))
	require.NoError(t, run(ctx, users, "demo", nil))

	alice, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", alice.Name())

	require.NoError(t, run(ctx, users, "create", []string{"-username", "bob", "-password", "hunter2"}))
	assert.ErrorIs(t, run(ctx, users, "create", []string{"-username", "bob", "-password", "hunter2"}), apperrors.ErrUserAlreadyExists)

	require.NoError(t, run(ctx, users, "delete", []string{"-username", "bob"}))
	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	assert.NoError(t, run(ctx, users, "delete", []string{"-username", "bob"}))
	assert.Error(t, run(ctx, users, "bogus", nil))
}
