package hoard

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spaolacci/murmur3"
)

// QueryCache is a thin facade over a Cache for retrieval results. It
// derives a deterministic key from (query, filters, limit) and stores the
// result list verbatim; all storage semantics belong to the wrapped Cache.
type QueryCache struct {
	cache *Cache
}

// NewQueryCache wraps an existing Cache.
func NewQueryCache(c *Cache) *QueryCache {
	return &QueryCache{cache: c}
}

// CacheResults stores the results of a query under a key derived from the
// query text, its filters, and the result limit.
func (q *QueryCache) CacheResults(ctx context.Context, query string, filters map[string]string, limit int, results []any, opts ...EntryOption) {
	q.cache.Put(ctx, queryKey(query, filters, limit), results, opts...)
}

// GetResults returns the cached results for the same (query, filters,
// limit) triple, or false on a miss. Any difference in the filters, in any
// order, is a miss.
func (q *QueryCache) GetResults(ctx context.Context, query string, filters map[string]string, limit int) ([]any, bool) {
	v, ok := q.cache.Get(ctx, queryKey(query, filters, limit))
	if !ok {
		return nil, false
	}
	results, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return results, true
}

// queryKey renders the filters canonically (sorted by key) so that map
// iteration order never changes the derived key.
func queryKey(query string, filters map[string]string, limit int) string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(query)
	b.WriteByte(0x1f)
	b.WriteString(strconv.Itoa(limit))
	for _, name := range names {
		b.WriteByte(0x1f)
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(filters[name])
	}

	h1, h2 := murmur3.Sum128([]byte(b.String()))
	return fmt.Sprintf("query:%016x%016x", h1, h2)
}
