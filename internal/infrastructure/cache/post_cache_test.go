package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/kanehiroyuu/post-api/internal/infrastructure/redis"
)

func newRedisPostCache(t *testing.T) (*PostCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewPostCache(redis.NewCacheRepository(client), 0), mr
}

func samplePosts(userID int) []*entities.Post {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []*entities.Post{
		{ID: 1, UserID: userID, Text: "hello", CreatedAt: created},
		{ID: 2, UserID: userID, Text: "world", CreatedAt: created.Add(time.Minute)},
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "post-42", Key(42))
}

func TestPostCache_RoundTrip(t *testing.T) {
	c, mr := newRedisPostCache(t)
	ctx := context.Background()

	_, found, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, found)

	posts := samplePosts(7)
	require.NoError(t, c.Put(ctx, 7, posts))

	got, found, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, posts, got)

	assert.True(t, mr.Exists("post-7"))
	assert.Equal(t, DefaultPostTTL, mr.TTL("post-7"))
}

func TestPostCache_EmptyListIsHit(t *testing.T) {
	c, mr := newRedisPostCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, 3, nil))

	raw, err := mr.Get("post-3")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	got, found, err := c.Get(ctx, 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostCache_Expiry(t *testing.T) {
	c, mr := newRedisPostCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, 1, samplePosts(1)))

	mr.FastForward(299 * time.Second)
	_, found, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)

	mr.FastForward(2 * time.Second)
	_, found, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPostCache_PutLeavesOtherUsers(t *testing.T) {
	c, _ := newRedisPostCache(t)
	ctx := context.Background()

	alice := samplePosts(1)
	require.NoError(t, c.Put(ctx, 1, alice))
	require.NoError(t, c.Put(ctx, 2, samplePosts(2)[:1]))
	require.NoError(t, c.Put(ctx, 2, nil))

	got, found, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, alice, got)
}

func TestPostCache_CorruptValue(t *testing.T) {
	c, mr := newRedisPostCache(t)
	require.NoError(t, mr.Set("post-9", "not json"))

	_, _, err := c.Get(context.Background(), 9)
	assert.Error(t, err)
}

func TestPostCache_BackendDown(t *testing.T) {
	c, mr := newRedisPostCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, c.Put(context.Background(), 1, nil))
}
