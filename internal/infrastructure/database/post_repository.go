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

// PostRepository implements port.PostRepository on MySQL or SQLite (without tracing)
type PostRepository struct {
	db     DBTX
	logger *logrus.Logger
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db DBTX, logger *logrus.Logger) *PostRepository {
	return &PostRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a post and sets its ID
func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	query := "INSERT INTO post (user_id, text, created_at) VALUES (?, ?, ?)"

	result, err := r.db.ExecContext(ctx, query, post.UserID, post.Text, post.CreatedAt)
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to insert post", err, logrus.Fields{
			"query":   query,
			"user.id": post.UserID,
		})
		return fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to get last insert ID", err, nil)
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	post.ID = int(id)

	r.logWithTrace(ctx, "Post created in database", logrus.Fields{
		"post.id": post.ID,
		"user.id": post.UserID,
	})

	return nil
}

// FindByID finds a post by ID
func (r *PostRepository) FindByID(ctx context.Context, id int) (*entities.Post, error) {
	query := "SELECT id, user_id, text, created_at FROM post WHERE id = ?"

	var post entities.Post
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.Text,
		&post.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, domain.ErrRecordNotFound)
	}

	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to execute SQL query", err, logrus.Fields{
			"query": query,
		})
		return nil, fmt.Errorf("failed to query post: %w", err)
	}

	post.CreatedAt = post.CreatedAt.UTC()
	return &post, nil
}

// FindByUser returns every post of a user ordered by id. Never returns a nil slice without an error.
func (r *PostRepository) FindByUser(ctx context.Context, userID int) ([]*entities.Post, error) {
	query := "SELECT id, user_id, text, created_at FROM post WHERE user_id = ? ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to execute SQL query", err, logrus.Fields{
			"query":   query,
			"user.id": userID,
		})
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*entities.Post, 0)
	for rows.Next() {
		var post entities.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Text, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		post.CreatedAt = post.CreatedAt.UTC()
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	r.logWithTrace(ctx, "Posts retrieved from database", logrus.Fields{
		"user.id":     userID,
		"posts.count": len(posts),
	})

	return posts, nil
}

// Delete removes a post by ID. A missing row yields domain.ErrRecordNotFound.
func (r *PostRepository) Delete(ctx context.Context, id int) error {
	query := "DELETE FROM post WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logErrorWithTrace(ctx, "Failed to delete post", err, logrus.Fields{
			"query":   query,
			"post.id": id,
		})
		return fmt.Errorf("failed to delete post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("post %d: %w", id, domain.ErrRecordNotFound)
	}

	r.logWithTrace(ctx, "Post deleted from database", logrus.Fields{
		"post.id": id,
	})

	return nil
}

// logWithTrace logs a message with trace information
func (r *PostRepository) logWithTrace(ctx context.Context, message string, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["component"] = "database"
	logging.LogWithTraceSkip(ctx, r.logger, 1, "repository", message, fields)
}

// logErrorWithTrace logs an error with trace information
func (r *PostRepository) logErrorWithTrace(ctx context.Context, message string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["component"] = "database"
	logging.LogErrorWithTraceSkip(ctx, r.logger, 1, "repository", message, err, fields)
}
