package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Upstream registry metrics
	RegistryRequests *prometheus.CounterVec
	RegistryLatency  *prometheus.HistogramVec
	RegistryErrors   *prometheus.CounterVec

	// Request cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Filter session metrics
	ActiveSessions prometheus.Gauge
	FiltersApplied prometheus.Counter
	FiltersCleared prometheus.Counter

	// Saved filter metrics
	SavedFilterOps *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RegistryRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_requests_total",
			Help:      "Total number of requests to the upstream company registry",
		}, []string{"endpoint", "status"}),
		RegistryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registry_request_duration_seconds",
			Help:      "Duration of upstream registry requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		RegistryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_errors_total",
			Help:      "Total number of failed upstream registry requests",
		}, []string{"endpoint"}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_cache_hits_total",
			Help:      "Total number of request cache hits",
		}, []string{"endpoint"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_cache_misses_total",
			Help:      "Total number of request cache misses",
		}, []string{"endpoint"}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filter_sessions_active",
			Help:      "Current number of live filter sessions",
		}),
		FiltersApplied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filters_applied_total",
			Help:      "Total number of draft filter applications",
		}),
		FiltersCleared: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filters_cleared_total",
			Help:      "Total number of filter clear operations",
		}),
		SavedFilterOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saved_filter_operations_total",
			Help:      "Total number of saved filter operations",
		}, []string{"operation"}),
	}
}
