package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for sectorcap.
// A nil registry is valid and records nothing.
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Ingestion Metrics
	IngestFilesTotal  *prometheus.CounterVec
	IngestRowsTotal   prometheus.Counter
	IngestRunDuration prometheus.Histogram

	// Analytics Metrics
	AnalyticsDuration    *prometheus.HistogramVec
	AnalyticsErrorsTotal *prometheus.CounterVec
	ModelHealthStatus    *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// NewMetricsRegistry registers every metric on reg. Pass prometheus.DefaultRegisterer
// in the server and a fresh prometheus.NewRegistry() in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorcap_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sectorcap_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sectorcap_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Ingestion Metrics
		IngestFilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorcap_ingest_files_total",
				Help: "Source files handled by the ingestion pipeline by outcome",
			},
			[]string{"status"},
		),
		IngestRowsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sectorcap_ingest_rows_total",
				Help: "Total flight rows inserted",
			},
		),
		IngestRunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sectorcap_ingest_run_duration_seconds",
				Help:    "Wall time of one ingestion run",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
			},
		),

		// Analytics Metrics
		AnalyticsDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sectorcap_analytics_duration_seconds",
				Help:    "Analytics operation execution time in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		AnalyticsErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorcap_analytics_errors_total",
				Help: "Analytics failures by operation and error code",
			},
			[]string{"operation", "code"},
		),
		ModelHealthStatus: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sectorcap_model_health_status",
				Help: "Latest health check per model (0=Good, 1=Warning, 2=Critical, 3=Error)",
			},
			[]string{"model"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorcap_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorcap_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
	}
}

func (m *MetricsRegistry) ObserveIngestFile(status string, rows int64) {
	if m == nil {
		return
	}
	m.IngestFilesTotal.WithLabelValues(status).Inc()
	if rows > 0 {
		m.IngestRowsTotal.Add(float64(rows))
	}
}

func (m *MetricsRegistry) ObserveIngestRun(d time.Duration) {
	if m == nil {
		return
	}
	m.IngestRunDuration.Observe(d.Seconds())
}

// ObserveAnalytics records one analytics call; code is empty on success.
func (m *MetricsRegistry) ObserveAnalytics(operation string, d time.Duration, code string) {
	if m == nil {
		return
	}
	m.AnalyticsDuration.WithLabelValues(operation).Observe(d.Seconds())
	if code != "" {
		m.AnalyticsErrorsTotal.WithLabelValues(operation, code).Inc()
	}
}

func (m *MetricsRegistry) SetModelHealth(model string, level float64) {
	if m == nil {
		return
	}
	m.ModelHealthStatus.WithLabelValues(model).Set(level)
}

// ObserveCache matches the ResultCache.OnLookup hook.
func (m *MetricsRegistry) ObserveCache(pattern string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(pattern).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(pattern).Inc()
}
