package tracing

import (
	"context"

	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// UserRepositoryTracer wraps a UserRepository with tracing
type UserRepositoryTracer struct {
	repo   port.UserRepository
	dbType string
}

// NewUserRepositoryTracer creates a new tracing decorator for UserRepository
func NewUserRepositoryTracer(repo port.UserRepository, dbType string) port.UserRepository {
	return &UserRepositoryTracer{
		repo:   repo,
		dbType: dbType,
	}
}

// Create wraps the Create method with tracing
func (r *UserRepositoryTracer) Create(ctx context.Context, user *entities.User) error {
	span, ctx := tracer.StartSpanFromContext(ctx, r.dbType+".create_user")
	defer span.Finish()

	span.SetTag("db.type", r.dbType)
	span.SetTag("db.operation", "INSERT")

	err := r.repo.Create(ctx, user)
	if err != nil {
		AddSpanError(span, err)
		span.SetTag("query.success", false)
		return err
	}

	span.SetTag("user.id", user.ID)
	span.SetTag("query.success", true)
	return nil
}

// FindByEmail wraps the FindByEmail method with tracing. The address itself is not tagged.
func (r *UserRepositoryTracer) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, r.dbType+".find_user_by_email")
	defer span.Finish()

	span.SetTag("db.type", r.dbType)
	span.SetTag("db.operation", "SELECT")

	user, err := r.repo.FindByEmail(ctx, email)
	if err != nil {
		AddSpanError(span, err)
		span.SetTag("query.success", false)
		return nil, err
	}

	span.SetTag("user.id", user.ID)
	span.SetTag("query.success", true)
	return user, nil
}
