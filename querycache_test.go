package hoard

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueryCache(t *testing.T) *QueryCache {
	t.Helper()
	c, err := New(1 << 20)
	require.NoError(t, err)
	return NewQueryCache(c)
}

func TestQueryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	qc := newTestQueryCache(t)

	results := []any{
		map[string]any{"id": "doc-1", "score": 0.92},
		map[string]any{"id": "doc-2", "score": 0.87},
	}
	qc.CacheResults(ctx, "find docs", map[string]string{"type": "doc"}, 10, results)

	got, ok := qc.GetResults(ctx, "find docs", map[string]string{"type": "doc"}, 10)
	require.True(t, ok)
	assert.Equal(t, results, got)
}

func TestQueryCacheFilterMismatchIsMiss(t *testing.T) {
	ctx := context.Background()
	qc := newTestQueryCache(t)

	qc.CacheResults(ctx, "q", map[string]string{"type": "doc"}, 10, []any{"r"})

	_, ok := qc.GetResults(ctx, "q", map[string]string{"type": "other"}, 10)
	assert.False(t, ok)
	_, ok = qc.GetResults(ctx, "q", map[string]string{"type": "doc"}, 20)
	assert.False(t, ok)
	_, ok = qc.GetResults(ctx, "other q", map[string]string{"type": "doc"}, 10)
	assert.False(t, ok)
}

func TestQueryCacheKeyIsOrderIndependent(t *testing.T) {
	a := queryKey("q", map[string]string{"lang": "en", "type": "doc", "year": "2025"}, 5)
	b := queryKey("q", map[string]string{"year": "2025", "lang": "en", "type": "doc"}, 5)
	assert.Equal(t, a, b)

	c := queryKey("q", map[string]string{"lang": "en", "type": "doc"}, 5)
	assert.NotEqual(t, a, c)
}

func TestQueryCacheDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, err := NewDiskBackend("cache", WithDiskFilesystem(memfs.New()))
	require.NoError(t, err)
	c, err := New(1<<20, WithBackend(backend))
	require.NoError(t, err)
	qc := NewQueryCache(c)

	results := []any{map[string]any{"id": "doc-1", "score": 0.92}}
	qc.CacheResults(ctx, "q", map[string]string{"type": "doc"}, 10, results)

	got, ok := qc.GetResults(ctx, "q", map[string]string{"type": "doc"}, 10)
	require.True(t, ok)
	assert.Equal(t, results, got)
}
