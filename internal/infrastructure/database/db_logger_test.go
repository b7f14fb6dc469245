package database

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLoggingDB_AttributesToRepository(t *testing.T) {
	db := newTestDB(t)
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, "debug")
	users := NewUserRepository(NewLoggingDB(db, logger, DriverSQLite), logger)

	createTestUser(t, users, "log@example.com")

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)

	sqlLine := lines[0]
	assert.Equal(t, "debug", sqlLine["level"])
	assert.Equal(t, "sql", sqlLine["component"])
	assert.Equal(t, DriverSQLite, sqlLine["db.type"])
	assert.Equal(t, float64(1), sqlLine["sql.rows_affected"])
	assert.Equal(t, "user_repository.go", filepath.Base(sqlLine["file"].(string)))

	repoLine := lines[1]
	assert.Equal(t, "database", repoLine["component"])
	assert.Equal(t, "user_repository.go", filepath.Base(repoLine["file"].(string)))
}

func TestLoggingDB_Levels(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("Failure", func(t *testing.T) {
		var buf bytes.Buffer
		ldb := NewLoggingDB(db, logging.NewLogger(&buf, "info"), DriverSQLite)

		_, err := ldb.ExecContext(ctx, "INSERT INTO missing_table VALUES (1)")
		require.Error(t, err)

		lines := logLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "error", lines[0]["level"])
		assert.Contains(t, lines[0]["sql.query"], "missing_table")
	})

	t.Run("Slow", func(t *testing.T) {
		var buf bytes.Buffer
		ldb := NewLoggingDB(db, logging.NewLogger(&buf, "info"), DriverSQLite)
		ldb.slowThreshold = time.Nanosecond

		rows, err := ldb.QueryContext(ctx, "SELECT id FROM users")
		require.NoError(t, err)
		rows.Close()

		lines := logLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "warning", lines[0]["level"])
		assert.Equal(t, true, lines[0]["sql.slow"])
		assert.Equal(t, "db_logger_test.go", filepath.Base(lines[0]["file"].(string)))
	})

	t.Run("FastSuccessIsDebug", func(t *testing.T) {
		var buf bytes.Buffer
		ldb := NewLoggingDB(db, logging.NewLogger(&buf, "info"), DriverSQLite)
		ldb.slowThreshold = time.Hour

		var n int
		require.NoError(t, ldb.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n))
		assert.Empty(t, strings.TrimSpace(buf.String()))
	})
}
