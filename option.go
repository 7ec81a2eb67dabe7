package hoard

import (
	"context"
	"log/slog"
	"time"
)

// Clock abstracts time.Now so TTL behavior can be driven by a fake
// clock in tests.
type Clock interface {
	Now() time.Time
}

// systemClock is the production Clock, backed by the wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type config struct {
	maxSizeBytes      int64
	ttl               time.Duration
	policy            Policy
	backend           Backend
	clock             Clock
	logger            *slog.Logger
	resetStatsOnClear bool
	loader            func(ctx context.Context, key string) (any, error)
	onEvict           func(key string, value any)
	onHit             func(key string, value any)
	onMiss            func(key string)
}

func defaultConfig() config {
	return config{
		policy: LRU,
		clock:  systemClock{},
		logger: slog.Default(),
	}
}

// Option configures a Cache.
type Option func(*config)

// WithTTL sets the default time-to-live for cache entries.
// Zero (the default) means entries do not expire.
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		c.ttl = d
	}
}

// WithPolicy sets the eviction policy.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithBackend sets the storage backend. Defaults to NewMemoryBackend().
func WithBackend(b Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// WithClock sets a custom clock for time operations.
// Useful for testing TTL behavior.
func WithClock(clk Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sets the logger used for absorbed failures.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStatsResetOnClear controls whether Clear also resets the stats
// counters. The default keeps counters cumulative across Clear.
func WithStatsResetOnClear(reset bool) Option {
	return func(c *config) {
		c.resetStatsOnClear = reset
	}
}

// WithLoader sets a function used by GetOrLoad to produce missing values.
func WithLoader(fn func(ctx context.Context, key string) (any, error)) Option {
	return func(c *config) {
		c.loader = fn
	}
}

// OnEvict sets a callback invoked when an entry is evicted.
func OnEvict(fn func(key string, value any)) Option {
	return func(c *config) {
		c.onEvict = fn
	}
}

// OnHit sets a callback invoked on cache hits.
func OnHit(fn func(key string, value any)) Option {
	return func(c *config) {
		c.onHit = fn
	}
}

// OnMiss sets a callback invoked on cache misses.
func OnMiss(fn func(key string)) Option {
	return func(c *config) {
		c.onMiss = fn
	}
}

type entryConfig struct {
	ttl      time.Duration
	ttlSet   bool
	metadata map[string]string
}

// EntryOption configures a single Put.
type EntryOption func(*entryConfig)

// WithEntryTTL overrides the cache default TTL for one entry. A value of
// zero or less is accepted and makes the entry immediately expired.
func WithEntryTTL(d time.Duration) EntryOption {
	return func(c *entryConfig) {
		c.ttl = d
		c.ttlSet = true
	}
}

// WithEntryMetadata attaches opaque metadata to one entry.
func WithEntryMetadata(m map[string]string) EntryOption {
	return func(c *entryConfig) {
		c.metadata = m
	}
}
