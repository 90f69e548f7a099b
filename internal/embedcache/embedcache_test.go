package embedcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/nextstep/internal/model"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (c *countingEmbedder) ModelName() string { return "test-model" }

type memStore struct {
	items   map[string]*model.EmbeddingCache
	getErr  error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{items: map[string]*model.EmbeddingCache{}}
}

func (m *memStore) Get(ctx context.Context, modelName, taskType, contentHash string) ([]float32, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	item, ok := m.items[modelName+"|"+taskType+"|"+contentHash]
	if !ok {
		return nil, false, nil
	}
	return item.Embedding, true, nil
}

func (m *memStore) Save(ctx context.Context, item *model.EmbeddingCache) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items[item.ModelName+"|"+item.TaskType+"|"+item.ContentHash] = item
	return nil
}

func TestLruCacheHit(t *testing.T) {
	inner := &countingEmbedder{}
	e := WrapLruCacheToEmbedder(inner, 8, time.Minute)

	a, err := e.Embed(context.Background(), "hello", "t")
	require.NoError(t, err)
	a[0] = 99
	b, err := e.Embed(context.Background(), "hello", "t")
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)
	require.Equal(t, float32(5), b[0])

	_, err = e.Embed(context.Background(), "hello", "other-task")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
	require.Equal(t, "test-model", e.ModelName())
}

func TestLruDisabled(t *testing.T) {
	inner := &countingEmbedder{}
	require.Same(t, inner, WrapLruCacheToEmbedder(inner, 0, time.Minute))
}

func TestDBCacheHitAndMiss(t *testing.T) {
	inner := &countingEmbedder{}
	store := newMemStore()
	e := WrapDBCacheToEmbedder(inner, store)

	_, err := e.Embed(context.Background(), "text", "t")
	require.NoError(t, err)
	require.Len(t, store.items, 1)
	_, err = e.Embed(context.Background(), "text", "t")
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)
}

func TestDBCacheLookupErrorFallsThrough(t *testing.T) {
	inner := &countingEmbedder{}
	store := newMemStore()
	store.getErr = errors.New("db down")
	store.saveErr = errors.New("db down")
	e := WrapDBCacheToEmbedder(inner, store)

	v, err := e.Embed(context.Background(), "text", "t")
	require.NoError(t, err)
	require.Len(t, v, 2)
	require.Equal(t, 1, inner.calls)
}

func TestDBCacheDoesNotStoreFailures(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("boom")}
	store := newMemStore()
	_, err := WrapDBCacheToEmbedder(inner, store).Embed(context.Background(), "text", "t")
	require.Error(t, err)
	require.Empty(t, store.items)
}

func TestBuildCacheKey(t *testing.T) {
	key, hash, name := buildCacheKey("  ", "t", "abc")
	require.Equal(t, "unknown", name)
	require.Len(t, hash, 64)
	require.Equal(t, "embed:unknown:t:"+hash, key)
}
