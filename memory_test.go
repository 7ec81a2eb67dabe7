package hoard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	e := &Entry{Key: "a", Value: 1, SizeBytes: 10, CreatedAt: time.Now()}
	require.NoError(t, b.Set(ctx, "a", e))

	got, ok, err := b.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, e, got)

	total, err := b.TotalBytes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
}

func TestMemoryBackendReplaceAdjustsTotal(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	require.NoError(t, b.Set(ctx, "a", &Entry{Key: "a", SizeBytes: 10}))
	require.NoError(t, b.Set(ctx, "a", &Entry{Key: "a", SizeBytes: 30}))

	total, err := b.TotalBytes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(30), total)
}

func TestMemoryBackendDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	require.NoError(t, b.Set(ctx, "a", &Entry{Key: "a", SizeBytes: 10}))
	require.NoError(t, b.Set(ctx, "b", &Entry{Key: "b", SizeBytes: 20}))

	require.NoError(t, b.Delete(ctx, "a"))
	require.NoError(t, b.Delete(ctx, "a")) // absent key is fine

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)

	require.NoError(t, b.Clear(ctx))
	total, err := b.TotalBytes(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMemoryBackendEntriesIsASnapshot(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	require.NoError(t, b.Set(ctx, "a", &Entry{Key: "a", SizeBytes: 10}))

	view, err := b.Entries(ctx)
	require.NoError(t, err)
	delete(view, "a") // mutating the view must not touch the backend

	_, ok, err := b.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
}
