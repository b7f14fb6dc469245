package tracing

import (
	"context"

	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// PostRepositoryTracer wraps a PostRepository with tracing
type PostRepositoryTracer struct {
	repo   port.PostRepository
	dbType string
}

// NewPostRepositoryTracer creates a new tracing decorator for PostRepository
func NewPostRepositoryTracer(repo port.PostRepository, dbType string) port.PostRepository {
	return &PostRepositoryTracer{
		repo:   repo,
		dbType: dbType,
	}
}

func (r *PostRepositoryTracer) Create(ctx context.Context, post *entities.Post) error {
	span, ctx := tracer.StartSpanFromContext(ctx, r.dbType+".create_post")
	defer span.Finish()

	AddSpanTags(span, map[string]interface{}{
		"db.type":      r.dbType,
		"db.operation": "INSERT",
		"user.id":      post.UserID,
		"post.length":  len(post.Text),
	})

	if err := r.repo.Create(ctx, post); err != nil {
		AddSpanError(span, err)
		span.SetTag("query.success", false)
		return err
	}

	span.SetTag("post.id", post.ID)
	span.SetTag("query.success", true)
	return nil
}

func (r *PostRepositoryTracer) FindByID(ctx context.Context, id int) (*entities.Post, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, r.dbType+".find_post_by_id")
	defer span.Finish()

	AddSpanTags(span, map[string]interface{}{
		"db.type":      r.dbType,
		"db.operation": "SELECT",
		"post.id":      id,
	})

	post, err := r.repo.FindByID(ctx, id)
	if err != nil {
		AddSpanError(span, err)
		span.SetTag("query.success", false)
		return nil, err
	}

	span.SetTag("user.id", post.UserID)
	span.SetTag("query.success", true)
	return post, nil
}

func (r *PostRepositoryTracer) FindByUser(ctx context.Context, userID int) ([]*entities.Post, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, r.dbType+".find_posts_by_user")
	defer span.Finish()

	AddSpanTags(span, map[string]interface{}{
		"db.type":      r.dbType,
		"db.operation": "SELECT",
		"user.id":      userID,
	})

	posts, err := r.repo.FindByUser(ctx, userID)
	if err != nil {
		AddSpanError(span, err)
		span.SetTag("query.success", false)
		return nil, err
	}

	span.SetTag("posts.count", len(posts))
	span.SetTag("query.success", true)
	return posts, nil
}

func (r *PostRepositoryTracer) Delete(ctx context.Context, id int) error {
	span, ctx := tracer.StartSpanFromContext(ctx, r.dbType+".delete_post")
	defer span.Finish()

	AddSpanTags(span, map[string]interface{}{
		"db.type":      r.dbType,
		"db.operation": "DELETE",
		"post.id":      id,
	})

	if err := r.repo.Delete(ctx, id); err != nil {
		AddSpanError(span, err)
		span.SetTag("query.success", false)
		return err
	}

	span.SetTag("query.success", true)
	return nil
}
