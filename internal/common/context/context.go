package context

import (
	"context"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	loggerKey      contextKey = "logger"
	repoLocatorKey contextKey = "repo_locator"
	userIDKey      contextKey = "user_id"
)

// RepoLocator holds all repositories and collaborators a request may need
type RepoLocator struct {
	UserRepo  port.UserRepository
	PostRepo  port.PostRepository
	PostCache port.PostCache
	Cache     port.CacheRepository
	Hasher    port.PasswordHasher
	Tokens    port.TokenIssuer
	Stats     port.Metrics
}

// RUser returns UserRepository
func (r *RepoLocator) RUser() port.UserRepository {
	return r.UserRepo
}

// RPost returns PostRepository
func (r *RepoLocator) RPost() port.PostRepository {
	return r.PostRepo
}

// CPost returns PostCache
func (r *RepoLocator) CPost() port.PostCache {
	return r.PostCache
}

// Metrics returns the statsd client, a no-op client when none is configured
func (r *RepoLocator) Metrics() port.Metrics {
	if r.Stats == nil {
		return &statsd.NoOpClient{}
	}
	return r.Stats
}

// SetLogger sets logger in context
func SetLogger(ctx context.Context, logger *logrus.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger retrieves logger from context
func GetLogger(ctx context.Context) *logrus.Logger {
	if logger, ok := ctx.Value(loggerKey).(*logrus.Logger); ok {
		return logger
	}
	return logrus.New() // fallback
}

// SetRepoLocator sets repository locator in context
func SetRepoLocator(ctx context.Context, locator *RepoLocator) context.Context {
	return context.WithValue(ctx, repoLocatorKey, locator)
}

// GetRepoLocator retrieves repository locator from context
func GetRepoLocator(ctx context.Context) *RepoLocator {
	if locator, ok := ctx.Value(repoLocatorKey).(*RepoLocator); ok {
		return locator
	}
	return nil
}

// SetUserID stores the authenticated subject
func SetUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the authenticated subject, ok is false for anonymous requests
func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok && userID > 0
}
