package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/sirupsen/logrus"
)

// DefaultSlowQueryThreshold is the duration above which a statement is logged as slow
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// LoggingDB wraps sql.DB and logs every statement with its driver, duration and row count.
// Each log line is attributed to the repository method that ran the statement.
type LoggingDB struct {
	*sql.DB
	logger        *logrus.Logger
	driver        string
	slowThreshold time.Duration
}

// NewLoggingDB creates a LoggingDB for the given driver with DefaultSlowQueryThreshold
func NewLoggingDB(db *sql.DB, logger *logrus.Logger, driver string) *LoggingDB {
	return &LoggingDB{
		DB:            db,
		logger:        logger,
		driver:        driver,
		slowThreshold: DefaultSlowQueryThreshold,
	}
}

// ExecContext runs a statement and logs it with the affected row count
func (db *LoggingDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	startTime := time.Now()
	result, err := db.DB.ExecContext(ctx, query, args...)

	var rowsAffected int64 = -1
	if err == nil && result != nil {
		rowsAffected, _ = result.RowsAffected()
	}
	db.log(ctx, query, args, time.Since(startTime), rowsAffected, err)

	return result, err
}

// QueryContext runs a query and logs it. The row count is unknown until the caller scans.
func (db *LoggingDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	startTime := time.Now()
	rows, err := db.DB.QueryContext(ctx, query, args...)
	db.log(ctx, query, args, time.Since(startTime), -1, err)

	return rows, err
}

// QueryRowContext runs a single-row query and logs it. sql.ErrNoRows only surfaces on Scan
// and is not logged as a failure.
func (db *LoggingDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	startTime := time.Now()
	row := db.DB.QueryRowContext(ctx, query, args...)
	db.log(ctx, query, args, time.Since(startTime), -1, row.Err())

	return row
}

func (db *LoggingDB) log(ctx context.Context, query string, args []interface{}, duration time.Duration, rowsAffected int64, err error) {
	logging.LogSQL(ctx, db.logger, logging.SQLStatement{
		DBType:       db.driver,
		Query:        query,
		Args:         args,
		Duration:     duration,
		RowsAffected: rowsAffected,
		Err:          err,
		Slow:         db.slowThreshold > 0 && duration > db.slowThreshold,
	})
}
