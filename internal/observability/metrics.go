// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// View recording outcomes used as the "result" label.
const (
	ViewResultAccepted  = "accepted"
	ViewResultDuplicate = "duplicate"
	ViewResultError     = "error"
)

var (
	// PageViewsTotal counts view recording attempts by target type and outcome.
	PageViewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_page_views_total",
		Help: "Total number of page view recording attempts by target type and result",
	}, []string{"target_type", "result"})

	// StatsComputeLatency records how long dashboard stats take to compute.
	StatsComputeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_stats_compute_latency_seconds",
		Help:    "Dashboard stats computation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	// CacheLookups counts cache-aside lookups by cache name and outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_cache_lookups_total",
		Help: "Total number of cache lookups by cache and result",
	}, []string{"cache", "result"})

	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})

	// WebSocketConnections is the gauge of open live-feed connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folio_websocket_connections",
		Help: "Number of open live view feed connections",
	})

	// WebSocketBackpressureDrops counts events dropped because a client send buffer was full.
	WebSocketBackpressureDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_websocket_backpressure_drops_total",
		Help: "Total number of live feed events dropped due to backpressure",
	})
)

// RecordView increments the page view counter.
func RecordView(targetType, result string) {
	PageViewsTotal.WithLabelValues(targetType, result).Inc()
}

// ObserveStats records a stats computation that started at start.
func ObserveStats(source string, start time.Time) {
	StatsComputeLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())
}
