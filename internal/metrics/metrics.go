// Package metrics exposes Prometheus counters/histograms for request
// volume, latency, and cache hit-rate, generalizing a lazy
// get-or-create PrometheusCollector pattern (dynamic per-label metric
// vectors) into a fixed set of named metrics this engine actually
// emits.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles every metric the HTTP layer and cache layer report.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHitsTotal  *prometheus.CounterVec
	storeQueryTotal *prometheus.CounterVec
}

// New constructs a Collector with all metrics registered up front.
func New() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cea_http_requests_total",
			Help: "Total HTTP requests by route, method, and status class.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cea_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cea_cache_lookups_total",
			Help: "Cache lookups by pool and outcome (hit/miss).",
		}, []string{"pool", "outcome"}),
		storeQueryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cea_store_queries_total",
			Help: "STORE statement executions by path (fast/slow) and outcome.",
		}, []string{"path", "outcome"}),
	}

	registry.MustRegister(c.requestsTotal, c.requestDuration, c.cacheHitsTotal, c.storeQueryTotal)
	return c
}

// ObserveRequest records one HTTP request's outcome and latency.
func (c *Collector) ObserveRequest(route, method, statusClass string, seconds float64) {
	c.requestsTotal.WithLabelValues(route, method, statusClass).Inc()
	c.requestDuration.WithLabelValues(route).Observe(seconds)
}

// ObserveCacheLookup records a cache hit or miss for the named pool.
func (c *Collector) ObserveCacheLookup(pool string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	c.cacheHitsTotal.WithLabelValues(pool, outcome).Inc()
}

// ObserveStoreQuery records a STORE execution outcome for the given
// query path ("fast" or "slow").
func (c *Collector) ObserveStoreQuery(path string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.storeQueryTotal.WithLabelValues(path, outcome).Inc()
}

// Handler exposes the registry over HTTP for Prometheus scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
