package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/kanehiroyuu/post-api/internal/usecase/port"
)

// DefaultPostTTL is how long a user's post list stays cached
const DefaultPostTTL = 300 * time.Second

// PostCache stores each user's full post list as one JSON value
type PostCache struct {
	repo port.CacheRepository
	ttl  time.Duration
}

// NewPostCache creates a PostCache on top of a raw cache. A non-positive ttl selects DefaultPostTTL.
func NewPostCache(repo port.CacheRepository, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{repo: repo, ttl: ttl}
}

// Key returns the cache key for a user's post list
func Key(userID int) string {
	return fmt.Sprintf("post-%d", userID)
}

// Get returns the cached list. found is false on a miss; an empty list is a hit.
func (c *PostCache) Get(ctx context.Context, userID int) ([]*entities.Post, bool, error) {
	raw, found, err := c.repo.Get(ctx, Key(userID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read post cache: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	posts := make([]*entities.Post, 0)
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, false, fmt.Errorf("failed to decode post cache: %w", err)
	}
	return posts, true, nil
}

// Put overwrites the cached list for userID
func (c *PostCache) Put(ctx context.Context, userID int, posts []*entities.Post) error {
	if posts == nil {
		posts = make([]*entities.Post, 0)
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to encode post cache: %w", err)
	}
	if err := c.repo.Set(ctx, Key(userID), string(raw), c.ttl); err != nil {
		return fmt.Errorf("failed to write post cache: %w", err)
	}
	return nil
}
