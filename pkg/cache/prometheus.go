package cache

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Humphrey-He/tiercache/internal/metrics"
)

// metricsProvider is implemented by cache instances that expose their
// internal counters.
//
// metricsProvider 由暴露其内部计数器的缓存实例实现。
type metricsProvider interface {
	Metrics() *metrics.Metrics
}

// NewPrometheusCollector builds a Prometheus collector over a cache
// instance's counters, suitable for registration with any registry.
// The mock cache does not support collection.
//
// NewPrometheusCollector 在缓存实例的计数器之上构建Prometheus收集器，
// 适合注册到任何注册表。模拟缓存不支持收集。
//
// Parameters:
//   - c: The cache instance to observe
//   - cacheName: The value of the "cache" label on every metric
//
// Returns:
//   - prometheus.Collector: The collector
//   - error: An error if the instance does not expose counters
func NewPrometheusCollector(c ICache, cacheName string) (prometheus.Collector, error) {
	provider, ok := c.(metricsProvider)
	if !ok {
		return nil, fmt.Errorf("cache instance does not expose metrics")
	}
	return metrics.NewPrometheusCollector(provider.Metrics(), cacheName), nil
}
