package database

import (
	"context"
	"testing"
	"time"

	"github.com/kanehiroyuu/post-api/internal/domain"
	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(NewLoggingDB(db, newTestLogger(), DriverSQLite), newTestLogger())
	ctx := context.Background()

	user := createTestUser(t, repo, "a@example.com")
	assert.Positive(t, user.ID)

	t.Run("FindByEmail", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user, found)
	})

	t.Run("FindByEmailIgnoresCase", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "A@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "a@example.com", found.Email)
	})

	t.Run("FindByEmailMissing", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, newTestLogger())

	createTestUser(t, repo, "dup@example.com")

	err := repo.Create(context.Background(), &entities.User{
		Email:        "DUP@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateRecord)
}
