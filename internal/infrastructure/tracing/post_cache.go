package tracing

import (
	"context"

	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
)

// PostCacheTracer wraps a PostCache with tracing
type PostCacheTracer struct {
	cache port.PostCache
}

// NewPostCacheTracer creates a new tracing decorator for PostCache
func NewPostCacheTracer(cache port.PostCache) port.PostCache {
	return &PostCacheTracer{cache: cache}
}

func (c *PostCacheTracer) Get(ctx context.Context, userID int) ([]*entities.Post, bool, error) {
	var (
		posts []*entities.Post
		found bool
	)
	err := TraceOperation(ctx, "post_cache.get", map[string]interface{}{"user.id": userID},
		func(ctx context.Context, span ddtrace.Span) error {
			var err error
			posts, found, err = c.cache.Get(ctx, userID)
			if err != nil {
				return err
			}
			AddSpanSuccess(span, map[string]interface{}{
				"cache.hit":   found,
				"posts.count": len(posts),
			})
			return nil
		})
	if err != nil {
		return nil, false, err
	}
	return posts, found, nil
}

func (c *PostCacheTracer) Put(ctx context.Context, userID int, posts []*entities.Post) error {
	return TraceOperation(ctx, "post_cache.put", map[string]interface{}{
		"user.id":     userID,
		"posts.count": len(posts),
	}, func(ctx context.Context, span ddtrace.Span) error {
		if err := c.cache.Put(ctx, userID, posts); err != nil {
			return err
		}
		AddSpanSuccess(span, nil)
		return nil
	})
}
