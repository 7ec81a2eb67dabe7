package hoard

import (
	"context"
	"fmt"

	"github.com/spaolacci/murmur3"
)

// EmbeddingCache is a thin facade over a Cache for embedding vectors. It
// derives a deterministic key from (text, model) and converts vectors to a
// backend-portable representation, reconstructing the original element
// type on read.
type EmbeddingCache struct {
	cache *Cache
}

// NewEmbeddingCache wraps an existing Cache.
func NewEmbeddingCache(c *Cache) *EmbeddingCache {
	return &EmbeddingCache{cache: c}
}

// CacheEmbedding stores the vector computed for text by the named model.
func (e *EmbeddingCache) CacheEmbedding(ctx context.Context, text, model string, vector []float32, opts ...EntryOption) {
	// float64 survives both the in-memory path and a JSON round trip
	// without losing float32 precision.
	portable := make([]float64, len(vector))
	for i, v := range vector {
		portable[i] = float64(v)
	}
	e.cache.Put(ctx, embeddingKey(text, model), portable, opts...)
}

// GetEmbedding returns the cached vector for (text, model), or false on a
// miss.
func (e *EmbeddingCache) GetEmbedding(ctx context.Context, text, model string) ([]float32, bool) {
	v, ok := e.cache.Get(ctx, embeddingKey(text, model))
	if !ok {
		return nil, false
	}

	switch vec := v.(type) {
	case []float64:
		out := make([]float32, len(vec))
		for i, f := range vec {
			out[i] = float32(f)
		}
		return out, true
	case []any:
		// Shape produced by a disk round trip through JSON.
		out := make([]float32, len(vec))
		for i, elem := range vec {
			f, ok := elem.(float64)
			if !ok {
				return nil, false
			}
			out[i] = float32(f)
		}
		return out, true
	}
	return nil, false
}

func embeddingKey(text, model string) string {
	h1, h2 := murmur3.Sum128([]byte(text + "\x1f" + model))
	return fmt.Sprintf("embedding:%016x%016x", h1, h2)
}
