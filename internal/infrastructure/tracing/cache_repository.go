package tracing

import (
	"context"
	"time"

	"github.com/kanehiroyuu/post-api/internal/usecase/port"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// CacheRepositoryTracer wraps a CacheRepository with tracing
type CacheRepositoryTracer struct {
	repo    port.CacheRepository
	backend string
}

// NewCacheRepositoryTracer creates a new tracing decorator for CacheRepository.
// backend names the store in span tags ("redis" or "memory").
func NewCacheRepositoryTracer(repo port.CacheRepository, backend string) port.CacheRepository {
	return &CacheRepositoryTracer{
		repo:    repo,
		backend: backend,
	}
}

// Set wraps the Set method with tracing
func (r *CacheRepositoryTracer) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	span, ctx := tracer.StartSpanFromContext(ctx, r.backend+".set")
	defer span.Finish()

	AddSpanTags(span, map[string]interface{}{
		"db.type":      r.backend,
		"db.operation": "SET",
		"cache.key":    key,
		"cache.ttl":    ttl.Seconds(),
	})

	err := r.repo.Set(ctx, key, value, ttl)
	if err != nil {
		AddSpanError(span, err)
		span.SetTag("cache.success", false)
		return err
	}

	span.SetTag("cache.success", true)
	return nil
}

// Get wraps the Get method with tracing
func (r *CacheRepositoryTracer) Get(ctx context.Context, key string) (string, bool, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, r.backend+".get")
	defer span.Finish()

	AddSpanTags(span, map[string]interface{}{
		"db.type":      r.backend,
		"db.operation": "GET",
		"cache.key":    key,
	})

	value, found, err := r.repo.Get(ctx, key)
	if err != nil {
		AddSpanError(span, err)
		span.SetTag("cache.success", false)
		return "", false, err
	}

	span.SetTag("cache.hit", found)
	span.SetTag("cache.success", true)
	return value, found, nil
}

// Ping wraps the Ping method with tracing
func (r *CacheRepositoryTracer) Ping(ctx context.Context) error {
	span, ctx := tracer.StartSpanFromContext(ctx, r.backend+".ping")
	defer span.Finish()

	AddSpanTags(span, map[string]interface{}{
		"db.type":      r.backend,
		"db.operation": "PING",
	})

	if err := r.repo.Ping(ctx); err != nil {
		AddSpanError(span, err)
		return err
	}
	return nil
}
