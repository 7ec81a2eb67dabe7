package hoard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Cache composes a storage backend and an eviction policy into a
// size-bounded, TTL-aware cache for computed artifacts.
//
// The cache is an optimization layer: apart from construction, nothing
// fails loudly. Oversized or unserializable values are rejected, backend
// I/O failures degrade to misses or dropped writes, and every absorbed
// failure is logged and counted in Stats.
type Cache struct {
	mu       sync.Mutex
	backend  Backend
	strategy strategy
	cfg      config
	stats    Stats

	// single-flight for loader
	loading sync.Map // string -> *loadCall
}

type loadCall struct {
	done  chan struct{}
	value any
	err   error
}

// New creates a Cache bounded by maxSizeBytes. A negative bound is a
// construction error; a zero bound is legal and rejects every Put.
func New(maxSizeBytes int64, opts ...Option) (*Cache, error) {
	if maxSizeBytes < 0 {
		return nil, fmt.Errorf("hoard: max size must not be negative, got %d", maxSizeBytes)
	}

	cfg := defaultConfig()
	cfg.maxSizeBytes = maxSizeBytes
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.policy < LRU || cfg.policy > TTL {
		return nil, fmt.Errorf("hoard: unknown eviction policy %d", cfg.policy)
	}
	if cfg.backend == nil {
		cfg.backend = NewMemoryBackend()
	}

	return &Cache{
		backend:  cfg.backend,
		strategy: newStrategy(cfg.policy),
		cfg:      cfg,
	}, nil
}

// Put stores value under key. The value is serialized to derive its size;
// if it cannot be serialized, or is larger than the cache budget, the put
// is rejected silently. After a successful insert the cache evicts entries
// until total stored bytes fit the budget again, never choosing the key
// just inserted while any alternative victim exists.
func (c *Cache) Put(ctx context.Context, key string, value any, opts ...EntryOption) {
	var ec entryConfig
	for _, opt := range opts {
		opt(&ec)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.stats.reject()
		c.cfg.logger.Warn("cache put rejected: value not serializable",
			"key", key, "error", err)
		return
	}
	size := int64(len(raw))
	if size > c.cfg.maxSizeBytes {
		c.stats.reject()
		c.cfg.logger.Warn("cache put rejected: value exceeds budget",
			"key", key, "size_bytes", size, "max_size_bytes", c.cfg.maxSizeBytes)
		return
	}

	ttl := c.cfg.ttl
	if ec.ttlSet {
		ttl = ec.ttl
		if ttl <= 0 {
			// Accepted, but immediately expired.
			ttl = -1
		}
	}

	now := c.cfg.clock.Now()
	e := &Entry{
		Key:            key,
		Value:          value,
		SizeBytes:      size,
		CreatedAt:      now,
		TTL:            ttl,
		LastAccessedAt: now,
		Metadata:       ec.metadata,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.Set(ctx, key, e); err != nil {
		c.cfg.logger.Warn("cache put dropped: backend write failed",
			"key", key, "error", err)
		return
	}
	c.strategy.onInsert(e)
	c.stats.insert()
	c.evictWhileOver(ctx, key)
}

// evictWhileOver removes victims until total stored bytes fit the budget.
// One Entries snapshot per iteration serves both the size sum and the
// victim view. Must be called with c.mu held.
func (c *Cache) evictWhileOver(ctx context.Context, inserted string) {
	for {
		view, err := c.backend.Entries(ctx)
		if err != nil {
			c.cfg.logger.Warn("cache eviction scan failed", "error", err)
			return
		}

		var total int64
		for _, e := range view {
			total += e.SizeBytes
		}
		if total <= c.cfg.maxSizeBytes || len(view) == 0 {
			return
		}

		// The just-inserted key is only evictable once it is the sole
		// remaining entry.
		candidates := view
		if len(view) > 1 {
			candidates = make(map[string]*Entry, len(view)-1)
			for k, e := range view {
				if k != inserted {
					candidates[k] = e
				}
			}
		}

		victim, ok := c.strategy.selectVictim(candidates)
		if !ok {
			return
		}
		if err := c.backend.Delete(ctx, victim); err != nil {
			c.cfg.logger.Warn("cache eviction failed", "key", victim, "error", err)
			return
		}
		c.stats.evict()
		if c.cfg.onEvict != nil {
			if e := view[victim]; e != nil {
				c.cfg.onEvict(victim, e.Value)
			}
		}
	}
}

// Get retrieves the value stored under key. An absent, expired, or
// unreadable entry is a miss; an expired entry is also removed from the
// backend opportunistically.
func (c *Cache) Get(ctx context.Context, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(ctx, key)
}

func (c *Cache) get(ctx context.Context, key string) (any, bool) {
	e, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.cfg.logger.Warn("cache read failed, treating as miss", "key", key, "error", err)
		return c.miss(key)
	}
	if !ok {
		return c.miss(key)
	}

	now := c.cfg.clock.Now()
	if e.isExpired(now) {
		if err := c.backend.Delete(ctx, key); err != nil {
			c.cfg.logger.Warn("expired entry cleanup failed", "key", key, "error", err)
		}
		return c.miss(key)
	}

	c.strategy.onAccess(e, now)
	c.stats.hit()
	if c.cfg.onHit != nil {
		c.cfg.onHit(key, e.Value)
	}
	return e.Value, true
}

func (c *Cache) miss(key string) (any, bool) {
	c.stats.miss()
	if c.cfg.onMiss != nil {
		c.cfg.onMiss(key)
	}
	return nil, false
}

// GetOrLoad retrieves the value for key, invoking the configured loader on
// a miss. Concurrent loads for the same key are deduplicated; the loaded
// value is stored through the normal Put path, so budget and rejection
// rules still apply. Loader errors belong to the caller and are returned.
func (c *Cache) GetOrLoad(ctx context.Context, key string) (any, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	if c.cfg.loader == nil {
		return nil, nil
	}

	call := &loadCall{done: make(chan struct{})}
	actual, loaded := c.loading.LoadOrStore(key, call)
	if loaded {
		// another goroutine is loading
		existing := actual.(*loadCall)
		select {
		case <-existing.done:
			return existing.value, existing.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	defer c.loading.Delete(key)

	v, err := c.cfg.loader(ctx, key)
	call.value = v
	call.err = err
	close(call.done)

	if err != nil {
		return nil, err
	}
	c.Put(ctx, key, v)
	return v, nil
}

// Delete removes the entry for key. Deleting an absent key is a no-op.
func (c *Cache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.Delete(ctx, key); err != nil {
		c.cfg.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}

// Has reports whether a live entry exists for key without touching stats
// or access metadata.
func (c *Cache) Has(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok, err := c.backend.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	return !e.isExpired(c.cfg.clock.Now())
}

// Clear removes all entries. Whether the stats counters reset as well is
// controlled by WithStatsResetOnClear; by default they are cumulative.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.Clear(ctx); err != nil {
		c.cfg.logger.Warn("cache clear failed", "error", err)
		return
	}
	if c.cfg.resetStatsOnClear {
		c.stats.reset()
	}
}

// Len returns the number of physically present entries.
// May include expired entries that have not been cleaned up yet.
func (c *Cache) Len(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.backend.Keys(ctx)
	if err != nil {
		c.cfg.logger.Warn("cache key listing failed", "error", err)
		return 0
	}
	return len(keys)
}

// TotalBytes returns the sum of stored entry sizes.
func (c *Cache) TotalBytes(ctx context.Context) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total, err := c.backend.TotalBytes(ctx)
	if err != nil {
		c.cfg.logger.Warn("cache size check failed", "error", err)
		return 0
	}
	return total
}

// Stats returns a snapshot of cache statistics.
func (c *Cache) Stats() Snapshot {
	return c.stats.Snapshot()
}
