package hoard

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVector(n int) []float32 {
	vec := make([]float32, n)
	for i := range vec {
		vec[i] = float32(i) * 0.25
	}
	return vec
}

func TestEmbeddingCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := New(1 << 20)
	require.NoError(t, err)
	ec := NewEmbeddingCache(c)

	vec := testVector(768)
	ec.CacheEmbedding(ctx, "hello", "m", vec)

	got, ok := ec.GetEmbedding(ctx, "hello", "m")
	require.True(t, ok)
	assert.Equal(t, vec, got)

	_, ok = ec.GetEmbedding(ctx, "other", "m")
	assert.False(t, ok)
}

func TestEmbeddingCacheModelIsPartOfKey(t *testing.T) {
	ctx := context.Background()
	c, err := New(1 << 20)
	require.NoError(t, err)
	ec := NewEmbeddingCache(c)

	ec.CacheEmbedding(ctx, "hello", "model-a", testVector(4))

	_, ok := ec.GetEmbedding(ctx, "hello", "model-b")
	assert.False(t, ok)
}

func TestEmbeddingCacheDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, err := NewDiskBackend("cache", WithDiskFilesystem(memfs.New()))
	require.NoError(t, err)
	c, err := New(1<<20, WithBackend(backend))
	require.NoError(t, err)
	ec := NewEmbeddingCache(c)

	vec := testVector(32)
	ec.CacheEmbedding(ctx, "hello", "m", vec)

	// The JSON round trip decodes to []any; the facade must reconstruct
	// the original element type.
	got, ok := ec.GetEmbedding(ctx, "hello", "m")
	require.True(t, ok)
	assert.Equal(t, vec, got)
}
