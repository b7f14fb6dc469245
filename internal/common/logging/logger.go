package logging

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// NewLogger creates a JSON logrus logger writing to out at the given level.
// Unknown levels fall back to info.
func NewLogger(out io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// callerSkip locates the caller of an exported helper, counted from entryWithTrace
const callerSkip = 2

// LogWithTrace logs a message with trace information and caller details
func LogWithTrace(ctx context.Context, logger *logrus.Logger, layer, message string, fields logrus.Fields) {
	entry, msg := entryWithTrace(ctx, logger, callerSkip, layer, message, fields)
	entry.Info(msg)
}

// LogDebugWithTrace logs a debug message with trace information and caller details
func LogDebugWithTrace(ctx context.Context, logger *logrus.Logger, layer, message string, fields logrus.Fields) {
	entry, msg := entryWithTrace(ctx, logger, callerSkip, layer, message, fields)
	entry.Debug(msg)
}

// LogWarnWithTrace logs a warning with trace information and caller details
func LogWarnWithTrace(ctx context.Context, logger *logrus.Logger, layer, message string, fields logrus.Fields) {
	entry, msg := entryWithTrace(ctx, logger, callerSkip, layer, message, fields)
	entry.Warn(msg)
}

// LogErrorWithTrace logs an error with trace information and caller details
func LogErrorWithTrace(ctx context.Context, logger *logrus.Logger, layer, message string, err error, fields logrus.Fields) {
	entry, msg := entryWithTrace(ctx, logger, callerSkip, layer, message, fields)
	entry.WithError(err).Error(msg)
}

// LogWithTraceSkip is LogWithTrace for logging wrappers. skip is the number of wrapper
// frames between the call site and this function.
func LogWithTraceSkip(ctx context.Context, logger *logrus.Logger, skip int, layer, message string, fields logrus.Fields) {
	entry, msg := entryWithTrace(ctx, logger, callerSkip+skip, layer, message, fields)
	entry.Info(msg)
}

// LogErrorWithTraceSkip is LogErrorWithTrace for logging wrappers
func LogErrorWithTraceSkip(ctx context.Context, logger *logrus.Logger, skip int, layer, message string, err error, fields logrus.Fields) {
	entry, msg := entryWithTrace(ctx, logger, callerSkip+skip, layer, message, fields)
	entry.WithError(err).Error(msg)
}

// SQLStatement describes one executed statement
type SQLStatement struct {
	DBType   string
	Query    string
	Args     []interface{}
	Duration time.Duration
	// RowsAffected is negative when unknown
	RowsAffected int64
	Err          error
	// Slow marks statements over the caller's threshold
	Slow bool
}

// LogSQL logs a single SQL statement. It expects to be called through two wrapper frames
// (LoggingDB.log and the sql method) and attributes the line to their caller.
// Failures go to error, slow statements to warn, the rest to debug.
func LogSQL(ctx context.Context, logger *logrus.Logger, stmt SQLStatement) {
	durationMs := float64(stmt.Duration.Microseconds()) / 1000
	fields := logrus.Fields{
		"component":       "sql",
		"sql.query":       stmt.Query,
		"sql.args":        fmt.Sprintf("%v", stmt.Args),
		"sql.duration_ms": durationMs,
	}
	if stmt.DBType != "" {
		fields["db.type"] = stmt.DBType
	}
	if stmt.RowsAffected >= 0 {
		fields["sql.rows_affected"] = stmt.RowsAffected
	}

	message := fmt.Sprintf("[%.3fms] [rows:%s] %s", durationMs, rowsLabel(stmt.RowsAffected), stmt.Query)
	entry, msg := entryWithTrace(ctx, logger, callerSkip+2, "repository", message, fields)
	switch {
	case stmt.Err != nil:
		entry.WithError(stmt.Err).Error(msg)
	case stmt.Slow:
		entry.WithField("sql.slow", true).Warn(msg)
	default:
		entry.Debug(msg)
	}
}

func rowsLabel(rowsAffected int64) string {
	if rowsAffected < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", rowsAffected)
}

// entryWithTrace builds the logrus entry and the formatted message.
// skip is passed to runtime.Caller to find the call site.
func entryWithTrace(ctx context.Context, logger *logrus.Logger, skip int, layer, message string, fields logrus.Fields) (*logrus.Entry, string) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if fields == nil {
		fields = logrus.Fields{}
	}

	formattedMessage := fmt.Sprintf("[%s] %s", layer, message)
	if _, file, line, ok := runtime.Caller(skip); ok {
		fields["file"] = file
		fields["line"] = line
		formattedMessage = fmt.Sprintf("[%s] %s:%d | %s", layer, file, line, message)
	}

	if span, ok := tracer.SpanFromContext(ctx); ok {
		spanContext := span.Context()
		fields["dd.trace_id"] = spanContext.TraceID()
		fields["dd.span_id"] = spanContext.SpanID()
	}

	fields["layer"] = layer

	return logger.WithContext(ctx).WithFields(fields), formattedMessage
}
