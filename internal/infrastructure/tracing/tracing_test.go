package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/mocktracer"

	"github.com/kanehiroyuu/post-api/internal/domain/entities"
	"github.com/kanehiroyuu/post-api/internal/infrastructure/memory"
)

type failingCache struct{ err error }

func (f failingCache) Get(context.Context, int) ([]*entities.Post, bool, error) {
	return nil, false, f.err
}

func (f failingCache) Put(context.Context, int, []*entities.Post) error { return f.err }

func TestCacheRepositoryTracer_TagsHitAndMiss(t *testing.T) {
	mt := mocktracer.Start()
	defer mt.Stop()

	repo := NewCacheRepositoryTracer(memory.NewCacheRepository(time.Minute), "memory")
	ctx := context.Background()

	_, found, err := repo.Get(ctx, "post-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, "post-1", "[]", time.Minute))
	_, found, err = repo.Get(ctx, "post-1")
	require.NoError(t, err)
	assert.True(t, found)

	spans := mt.FinishedSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "memory.get", spans[0].OperationName())
	assert.Equal(t, "memory.set", spans[1].OperationName())
	assert.Equal(t, "post-1", spans[1].Tag("cache.key"))
	assert.Equal(t, 60.0, spans[1].Tag("cache.ttl"))
	assert.Equal(t, "memory.get", spans[2].OperationName())
}

func TestPostCacheTracer_RecordsError(t *testing.T) {
	mt := mocktracer.Start()
	defer mt.Stop()

	boom := errors.New("boom")
	c := NewPostCacheTracer(failingCache{err: boom})

	_, _, err := c.Get(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, c.Put(context.Background(), 3, nil), boom)

	spans := mt.FinishedSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "post_cache.get", spans[0].OperationName())
	assert.Equal(t, "post_cache.put", spans[1].OperationName())
	for _, s := range spans {
		assert.Equal(t, "boom", s.Tag("error.msg"))
	}
}

func TestCacheRepositoryTracer_Ping(t *testing.T) {
	mt := mocktracer.Start()
	defer mt.Stop()

	repo := NewCacheRepositoryTracer(memory.NewCacheRepository(time.Minute), "memory")
	require.NoError(t, repo.Ping(context.Background()))

	spans := mt.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "memory.ping", spans[0].OperationName())
	assert.Equal(t, "PING", spans[0].Tag("db.operation"))
}
