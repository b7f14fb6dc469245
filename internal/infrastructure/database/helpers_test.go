package database

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testDSN = "file::memory:?_pragma=foreign_keys(1)"

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, DriverSQLite, testDSN, false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db, DriverSQLite))
	return db
}

func newTestLogger() *logrus.Logger {
	return logging.NewLogger(io.Discard, "debug")
}

func createTestUser(t *testing.T, repo *UserRepository, email string) *entities.User {
	t.Helper()
	user := &entities.User{
		Email:        email,
		PasswordHash: "$2a$04$hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}
