package hoard

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// StatsCollector exposes a Cache's statistics as Prometheus metrics. It is
// a read-only adapter: registering it adds no work to the cache hot path,
// counters are sampled from the stats snapshot at scrape time.
type StatsCollector struct {
	cache *Cache

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	insertions *prometheus.Desc
	evictions  *prometheus.Desc
	rejections *prometheus.Desc
	hitRate    *prometheus.Desc
	totalBytes *prometheus.Desc
}

var _ prometheus.Collector = (*StatsCollector)(nil)

// NewStatsCollector creates a collector for the given cache. The namespace
// prefixes every metric name.
func NewStatsCollector(namespace string, c *Cache) *StatsCollector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "cache", n)
	}
	return &StatsCollector{
		cache: c,
		hits: prometheus.NewDesc(
			name("hits_total"), "Number of cache hits.", nil, nil),
		misses: prometheus.NewDesc(
			name("misses_total"), "Number of cache misses.", nil, nil),
		insertions: prometheus.NewDesc(
			name("insertions_total"), "Number of successful puts.", nil, nil),
		evictions: prometheus.NewDesc(
			name("evictions_total"), "Number of evicted entries.", nil, nil),
		rejections: prometheus.NewDesc(
			name("rejections_total"), "Number of rejected puts.", nil, nil),
		hitRate: prometheus.NewDesc(
			name("hit_rate"), "Fraction of gets that found a live entry.", nil, nil),
		totalBytes: prometheus.NewDesc(
			name("size_bytes"), "Total bytes currently stored.", nil, nil),
	}
}

func (sc *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- sc.hits
	ch <- sc.misses
	ch <- sc.insertions
	ch <- sc.evictions
	ch <- sc.rejections
	ch <- sc.hitRate
	ch <- sc.totalBytes
}

func (sc *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := sc.cache.Stats()
	ch <- prometheus.MustNewConstMetric(sc.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(sc.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(sc.insertions, prometheus.CounterValue, float64(s.Insertions))
	ch <- prometheus.MustNewConstMetric(sc.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(sc.rejections, prometheus.CounterValue, float64(s.Rejections))
	ch <- prometheus.MustNewConstMetric(sc.hitRate, prometheus.GaugeValue, s.HitRate())
	ch <- prometheus.MustNewConstMetric(sc.totalBytes, prometheus.GaugeValue,
		float64(sc.cache.TotalBytes(context.Background())))
}
