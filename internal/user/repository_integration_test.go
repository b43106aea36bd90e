package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryPostgres(t *testing.T) {
	pg := testutil.NewPostgres(t)
	repo := NewUserRepository(pg.DB, 5*time.Second)
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		pg.Reset(t)
		user := &User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", Active: true}
		require.NoError(t, repo.createUser(ctx, user))
		assert.False(t, user.CreatedAt.IsZero())

		byEmail, err := repo.getUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.PasswordHash)

		byID, err := repo.getUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", byID.Name)
	})

	t.Run("duplicate email", func(t *testing.T) {
		pg.Reset(t)
		require.NoError(t, repo.createUser(ctx, &User{ID: uuid.New(), Name: "A", Email: "dup@example.com", PasswordHash: "h", Active: true}))
		err := repo.createUser(ctx, &User{ID: uuid.New(), Name: "B", Email: "dup@example.com", PasswordHash: "h", Active: true})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("missing user", func(t *testing.T) {
		pg.Reset(t)
		_, err := repo.getUserByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
		_, err = repo.getUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.ErrorIs(t, repo.updateUser(ctx, &User{ID: uuid.New(), Name: "x", Email: "x@example.com"}), ErrUserNotFound)
	})

	t.Run("update and delete", func(t *testing.T) {
		pg.Reset(t)
		user := &User{ID: uuid.New(), Name: "Carol", Email: "carol@example.com", PasswordHash: "h", Active: true}
		require.NoError(t, repo.createUser(ctx, user))

		user.Name = "Caroline"
		require.NoError(t, repo.updateUser(ctx, user))
		updated, err := repo.getUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Caroline", updated.Name)

		require.NoError(t, repo.deleteUser(ctx, user.ID))
		assert.ErrorIs(t, repo.deleteUser(ctx, user.ID), ErrUserNotFound)
	})

	t.Run("list pages", func(t *testing.T) {
		pg.Reset(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, repo.createUser(ctx, &User{ID: uuid.New(), Name: "U", Email: uuid.NewString() + "@example.com", PasswordHash: "h", Active: true}))
		}
		users, err := repo.listUsers(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, users, 2)

		users, err = repo.listUsers(ctx, 2, 2)
		require.NoError(t, err)
		assert.Len(t, users, 1)

		users, err = repo.listUsers(ctx, 2, 10)
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})
}
