package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/domain"
	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/sirupsen/logrus"
)

// UserRepository implements port.UserRepository on MySQL or SQLite (without tracing)
type UserRepository struct {
	db     DBTX
	logger *logrus.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX, logger *logrus.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a user and sets its ID. A taken email yields domain.ErrDuplicateRecord.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := "INSERT INTO users (email, password, created_at) VALUES (?, ?, ?)"

	result, err := r.db.ExecContext(ctx, query, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			r.logWithTrace(ctx, "User email already registered", nil)
			return fmt.Errorf("insert user: %w", domain.ErrDuplicateRecord)
		}
		r.logErrorWithTrace(ctx, "Failed to insert user", err, logrus.Fields{
			"query": query,
		})
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to get last insert ID", err, nil)
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)

	r.logWithTrace(ctx, "User created in database", logrus.Fields{
		"user.id": user.ID,
	})

	return nil
}

// FindByEmail finds a user by email, ignoring case
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := "SELECT id, email, password, created_at FROM users WHERE email = ? LIMIT 1"
	return r.findOne(ctx, query, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*entities.User, error) {
	var user entities.User

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %v: %w", arg, domain.ErrRecordNotFound)
	}

	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to execute SQL query", err, logrus.Fields{
			"query": query,
		})
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

// logWithTrace logs a message with trace information
func (r *UserRepository) logWithTrace(ctx context.Context, message string, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["component"] = "database"
	logging.LogWithTraceSkip(ctx, r.logger, 1, "repository", message, fields)
}

// logErrorWithTrace logs an error with trace information
func (r *UserRepository) logErrorWithTrace(ctx context.Context, message string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["component"] = "database"
	logging.LogErrorWithTraceSkip(ctx, r.logger, 1, "repository", message, err, fields)
}
