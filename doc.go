// Package hoard provides a size-bounded cache for computed artifacts such
// as retrieval results and embedding vectors, with per-entry TTL, swappable
// eviction policies, and swappable persistence backends.
//
// # Overview
//
// A Cache composes a Backend (where entries live) with an eviction Policy
// (which entry goes when the byte budget is exceeded). Two backends ship
// with the package: an in-process MemoryBackend and a DiskBackend that
// persists one file per entry in a directory, surviving restarts and
// shareable between cache instances. Three policies are available: LRU,
// LFU, and TTL.
//
// # Basic Usage
//
// Create a cache and perform basic operations:
//
//	ctx := context.Background()
//
//	cache, err := hoard.New(64<<20, // 64 MiB budget
//		hoard.WithTTL(15*time.Minute),
//		hoard.WithPolicy(hoard.LRU),
//	)
//	if err != nil {
//		return err
//	}
//
//	cache.Put(ctx, "key", computed)
//
//	if v, ok := cache.Get(ctx, "key"); ok {
//		fmt.Println(v)
//	}
//
//	cache.Delete(ctx, "key")
//
// # Error Model
//
// The cache is an optimization layer, so runtime failures are never
// surfaced to callers: an oversized or unserializable value is silently
// rejected, a backend I/O failure degrades to a miss or a dropped write,
// and an expired entry simply reads as absent. Every absorbed failure is
// logged through the configured slog.Logger and reflected in Stats
// (rejections, misses). Only construction returns an error.
//
// # Persistence
//
// The disk backend writes each entry as a JSON record named by a stable
// content digest of its key, so several processes pointing at the same
// directory observe each other's writes:
//
//	backend, err := hoard.NewDiskBackend("/var/cache/artifacts")
//	if err != nil {
//		return err
//	}
//	cache, err := hoard.New(1<<30, hoard.WithBackend(backend))
//
// Corrupt or unreadable files are treated as absent, never as errors.
//
// # Facades
//
// QueryCache and EmbeddingCache wrap a Cache with deterministic key
// derivation for retrieval results and embedding vectors:
//
//	qc := hoard.NewQueryCache(cache)
//	qc.CacheResults(ctx, "find docs", map[string]string{"type": "doc"}, 10, results)
//	results, ok := qc.GetResults(ctx, "find docs", map[string]string{"type": "doc"}, 10)
//
//	ec := hoard.NewEmbeddingCache(cache)
//	ec.CacheEmbedding(ctx, "hello world", "text-embed-small", vec)
//	vec, ok := ec.GetEmbedding(ctx, "hello world", "text-embed-small")
//
// # Loading
//
// Use a loader to fetch missing values with single-flight deduplication:
//
//	cache, _ := hoard.New(64<<20,
//		hoard.WithLoader(func(ctx context.Context, key string) (any, error) {
//			return expensiveCompute(ctx, key)
//		}),
//	)
//	v, err := cache.GetOrLoad(ctx, "artifact:42")
//
// # Observability
//
// Stats returns a snapshot of the hit/miss/insertion/eviction/rejection
// counters; Snapshot.Map renders it as a plain mapping for external
// telemetry. StatsCollector adapts a cache to a prometheus.Collector:
//
//	prometheus.MustRegister(hoard.NewStatsCollector("myapp", cache))
//
// # Testing
//
// Inject a custom clock to control time in tests:
//
//	type fakeClock struct{ now time.Time }
//	func (c *fakeClock) Now() time.Time { return c.now }
//
//	clk := &fakeClock{now: time.Now()}
//	cache, _ := hoard.New(1<<20,
//		hoard.WithTTL(time.Minute),
//		hoard.WithClock(clk),
//	)
//
//	cache.Put(ctx, "key", 42)
//	clk.now = clk.now.Add(2 * time.Minute) // TTL expired
//	_, ok := cache.Get(ctx, "key")         // ok == false
//
// # Thread Safety
//
// All Cache methods are safe for concurrent use. A single cache-level
// mutex protects the put/measure/evict sequence, so interleaved puts can
// never jointly overshoot the byte budget.
package hoard
