package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CacheRepository is an in-process cache used when no Redis address is configured
type CacheRepository struct {
	store *gocache.Cache
}

// NewCacheRepository creates a new CacheRepository. cleanup is the janitor interval for expired keys.
func NewCacheRepository(cleanup time.Duration) *CacheRepository {
	return &CacheRepository{store: gocache.New(gocache.NoExpiration, cleanup)}
}

// Set stores a value. A zero ttl keeps the key without expiry.
func (r *CacheRepository) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	r.store.Set(key, value, ttl)
	return nil
}

// Get retrieves a value
func (r *CacheRepository) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := r.store.Get(key)
	if !ok {
		return "", false, nil
	}
	s, _ := v.(string)
	return s, true, nil
}

// Ping always succeeds, the store lives in process
func (r *CacheRepository) Ping(context.Context) error {
	return nil
}
