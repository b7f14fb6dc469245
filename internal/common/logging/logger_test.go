package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
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

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, logrus.DebugLevel, NewLogger(&buf, "debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger(&buf, "nonsense").GetLevel())
}

func TestLogWithTrace_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	LogWithTrace(context.Background(), logger, "usecase", "Listing posts", logrus.Fields{"user.id": 7})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "usecase", lines[0]["layer"])
	assert.Equal(t, float64(7), lines[0]["user.id"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Contains(t, lines[0]["msg"], "Listing posts")
	assert.NotContains(t, lines[0], "dd.trace_id")
}

func TestLogErrorWithTrace_IncludesError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	LogErrorWithTrace(context.Background(), logger, "handler", "Failed", errors.New("boom"), nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "boom", lines[0]["error"])
}

func TestLogSQL_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	LogSQL(context.Background(), logger, SQLStatement{Query: "SELECT 1", Duration: time.Millisecond, RowsAffected: -1})
	assert.Empty(t, strings.TrimSpace(buf.String()), "successful statements log at debug")

	LogSQL(context.Background(), logger, SQLStatement{Query: "SELECT 1", DBType: "mysql", RowsAffected: -1, Slow: true})
	LogSQL(context.Background(), logger, SQLStatement{Query: "SELECT 1", RowsAffected: 2, Err: errors.New("syntax")})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warning", lines[0]["level"])
	assert.Equal(t, "mysql", lines[0]["db.type"])
	assert.Equal(t, true, lines[0]["sql.slow"])
	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "SELECT 1", lines[1]["sql.query"])
	assert.Equal(t, float64(2), lines[1]["sql.rows_affected"])
	assert.Equal(t, "syntax", lines[1]["error"])
}

// logFromHelper logs from its own body; the recorded line must be this function's, not its caller's.
func logFromHelper(logger *logrus.Logger) int {
	_, _, line, _ := runtime.Caller(0)
	LogWithTrace(context.Background(), logger, "usecase", "from helper", nil)
	return line + 1
}

func wrappedLog(logger *logrus.Logger) {
	LogErrorWithTraceSkip(context.Background(), logger, 1, "repository", "wrapped", errors.New("x"), nil)
}

func TestLogWithTrace_CallSite(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	want := logFromHelper(logger)
	_, _, wrapperLine, _ := runtime.Caller(0)
	wrappedLog(logger)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "logger_test.go", filepath.Base(lines[0]["file"].(string)))
	assert.Equal(t, float64(want), lines[0]["line"])
	assert.Contains(t, lines[0]["msg"], fmt.Sprintf("logger_test.go:%d", want))

	assert.Equal(t, float64(wrapperLine+1), lines[1]["line"], "skip attributes to the wrapper's caller")
}
