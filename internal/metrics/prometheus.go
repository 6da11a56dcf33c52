// Prometheus 集成：将缓存计数器作为 prometheus.Collector 暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 默认的Prometheus指标命名空间
const defaultNamespace = "tiercache"

// PrometheusCollector exposes cache counters as a prometheus.Collector.
// Register it with a prometheus.Registerer and scrape it like any other
// collector; every scrape reads an atomic snapshot.
//
// PrometheusCollector 将缓存计数器作为prometheus.Collector暴露。
// 将其注册到prometheus.Registerer并像任何其他收集器一样抓取；
// 每次抓取都读取一个原子快照。
type PrometheusCollector struct {
	metrics   *Metrics
	cacheName string

	hits         *prometheus.Desc
	misses       *prometheus.Desc
	evictions    *prometheus.Desc
	promotions   *prometheus.Desc
	demotions    *prometheus.Desc
	expired      *prometheus.Desc
	fallbackHits *prometheus.Desc
	storeErrors  *prometheus.Desc
	mirrorDrops  *prometheus.Desc
	tierItems    *prometheus.Desc
	tierCapacity *prometheus.Desc
	tierHits     *prometheus.Desc
	tierMisses   *prometheus.Desc
	tierEvicted  *prometheus.Desc
}

// NewPrometheusCollector creates a collector for one cache instance.
// The cache name becomes a constant label so multiple caches can share
// a registry.
//
// NewPrometheusCollector 为一个缓存实例创建收集器。
// 缓存名称成为常量标签，因此多个缓存可以共享一个注册表。
//
// Parameters:
//   - m: The metrics collector to expose
//   - cacheName: The cache instance name used as a label
//
// Returns:
//   - *PrometheusCollector: A new Prometheus collector
func NewPrometheusCollector(m *Metrics, cacheName string) *PrometheusCollector {
	constLabels := prometheus.Labels{"cache": cacheName}
	ns := defaultNamespace

	return &PrometheusCollector{
		metrics:   m,
		cacheName: cacheName,
		hits: prometheus.NewDesc(ns+"_hits_total",
			"Total cache hits, including persistent store fallback hits.", nil, constLabels),
		misses: prometheus.NewDesc(ns+"_misses_total",
			"Total cache misses across all tiers and the persistent store.", nil, constLabels),
		evictions: prometheus.NewDesc(ns+"_evictions_total",
			"Entries discarded because no lower tier had capacity.", nil, constLabels),
		promotions: prometheus.NewDesc(ns+"_promotions_total",
			"Entries moved to a higher tier due to access frequency.", nil, constLabels),
		demotions: prometheus.NewDesc(ns+"_demotions_total",
			"Entries moved to a lower tier to free capacity.", nil, constLabels),
		expired: prometheus.NewDesc(ns+"_expired_total",
			"Entries removed because their TTL passed.", nil, constLabels),
		fallbackHits: prometheus.NewDesc(ns+"_fallback_hits_total",
			"Hits served from the persistent store after an in-memory miss.", nil, constLabels),
		storeErrors: prometheus.NewDesc(ns+"_store_errors_total",
			"Best-effort persistent store calls that failed.", nil, constLabels),
		mirrorDrops: prometheus.NewDesc(ns+"_mirror_drops_total",
			"Write-through tasks dropped because the mirror queue was full.", nil, constLabels),
		tierItems: prometheus.NewDesc(ns+"_tier_items",
			"Live entries per tier.", []string{"tier"}, constLabels),
		tierCapacity: prometheus.NewDesc(ns+"_tier_capacity",
			"Configured maximum entries per tier.", []string{"tier"}, constLabels),
		tierHits: prometheus.NewDesc(ns+"_tier_hits_total",
			"Hits per tier.", []string{"tier"}, constLabels),
		tierMisses: prometheus.NewDesc(ns+"_tier_misses_total",
			"Lookups that consulted a tier without finding the key.", []string{"tier"}, constLabels),
		tierEvicted: prometheus.NewDesc(ns+"_tier_evictions_total",
			"Evictions per tier.", []string{"tier"}, constLabels),
	}
}

// Describe implements prometheus.Collector.
//
// Describe 实现prometheus.Collector。
func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.promotions
	ch <- c.demotions
	ch <- c.expired
	ch <- c.fallbackHits
	ch <- c.storeErrors
	ch <- c.mirrorDrops
	ch <- c.tierItems
	ch <- c.tierCapacity
	ch <- c.tierHits
	ch <- c.tierMisses
	ch <- c.tierEvicted
}

// Collect implements prometheus.Collector.
//
// Collect 实现prometheus.Collector。
func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.metrics.GetSnapshot()

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(snap.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(snap.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(snap.Evictions))
	ch <- prometheus.MustNewConstMetric(c.promotions, prometheus.CounterValue, float64(snap.Promotions))
	ch <- prometheus.MustNewConstMetric(c.demotions, prometheus.CounterValue, float64(snap.Demotions))
	ch <- prometheus.MustNewConstMetric(c.expired, prometheus.CounterValue, float64(snap.Expired))
	ch <- prometheus.MustNewConstMetric(c.fallbackHits, prometheus.CounterValue, float64(snap.FallbackHits))
	ch <- prometheus.MustNewConstMetric(c.storeErrors, prometheus.CounterValue, float64(snap.StoreErrors))
	ch <- prometheus.MustNewConstMetric(c.mirrorDrops, prometheus.CounterValue, float64(snap.MirrorDrops))

	for _, tier := range snap.Tiers {
		ch <- prometheus.MustNewConstMetric(c.tierItems, prometheus.GaugeValue, float64(tier.Items), tier.Name)
		ch <- prometheus.MustNewConstMetric(c.tierCapacity, prometheus.GaugeValue, float64(tier.MaxSize), tier.Name)
		ch <- prometheus.MustNewConstMetric(c.tierHits, prometheus.CounterValue, float64(tier.Hits), tier.Name)
		ch <- prometheus.MustNewConstMetric(c.tierMisses, prometheus.CounterValue, float64(tier.Misses), tier.Name)
		ch <- prometheus.MustNewConstMetric(c.tierEvicted, prometheus.CounterValue, float64(tier.Evictions), tier.Name)
	}
}
