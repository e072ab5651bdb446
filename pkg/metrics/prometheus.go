// Package metrics provides Prometheus metrics for the cpmd analysis service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultRefreshInterval is the default gauge refresh cadence.
const defaultRefreshInterval = 10 * time.Second

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Evaluation session metrics
	registryMutations *prometheus.CounterVec
	ratingsSet        prometheus.Counter
	reconciles        prometheus.Counter
	resultsComputed   prometheus.Counter
	exports           *prometheus.CounterVec
	criteriaCount     prometheus.Gauge
	vendorCount       prometheus.Gauge

	// Market data metrics
	marketFetchSuccess  prometheus.Counter
	marketFetchFailure  prometheus.Counter
	marketFetchDuration prometheus.Histogram
	uploads             *prometheus.CounterVec
	cachedRecords       prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cpmd",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics registers all metrics on the configured registry.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.registryMutations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "registry_mutations_total",
			Help:      "Total criteria/vendor registry mutations by kind",
		},
		[]string{"kind"},
	)

	m.ratingsSet = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ratings_set_total",
		Help:      "Total rating cell updates",
	})

	m.reconciles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matrix_reconciles_total",
		Help:      "Total ratings matrix reconciliations after registry mutations",
	})

	m.resultsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_computed_total",
		Help:      "Total vendor result computations",
	})

	m.exports = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "exports_total",
			Help:      "Total report exports by format",
		},
		[]string{"format"},
	)

	m.criteriaCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "criteria_count",
		Help:      "Current number of criteria in the session",
	})

	m.vendorCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vendor_count",
		Help:      "Current number of vendors in the session",
	})

	m.marketFetchSuccess = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_fetch_success_total",
		Help:      "Total tickers fetched successfully from the market data provider",
	})

	m.marketFetchFailure = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_fetch_failure_total",
		Help:      "Total per-ticker fetch failures (soft errors)",
	})

	m.marketFetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_fetch_duration_milliseconds",
		Help:      "Histogram of per-ticker market data fetch duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.uploads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "uploads_total",
			Help:      "Total file uploads by outcome (accepted, rejected)",
		},
		[]string{"outcome"},
	)

	m.cachedRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cached_financial_records",
		Help:      "Current number of cached financial records",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total errors by endpoint, method, and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorsByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Histogram of average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Package-level helpers operating on the global manager.

// RecordRegistryMutation counts a registry mutation of the given kind.
func RecordRegistryMutation(kind string) {
	globalManager.registryMutations.WithLabelValues(kind).Inc()
}

// RecordRatingSet counts a rating cell update.
func RecordRatingSet() {
	globalManager.ratingsSet.Inc()
}

// RecordReconcile counts a ratings matrix reconciliation.
func RecordReconcile() {
	globalManager.reconciles.Inc()
}

// RecordResultsComputed counts a vendor result computation.
func RecordResultsComputed() {
	globalManager.resultsComputed.Inc()
}

// RecordExport counts an export in the given format ("cpm" or "csv").
func RecordExport(format string) {
	globalManager.exports.WithLabelValues(format).Inc()
}

// UpdateCriteriaCount sets the criteria count gauge.
func UpdateCriteriaCount(count int) {
	globalManager.criteriaCount.Set(float64(count))
}

// UpdateVendorCount sets the vendor count gauge.
func UpdateVendorCount(count int) {
	globalManager.vendorCount.Set(float64(count))
}

// RecordMarketFetchSuccess counts a successful per-ticker fetch.
func RecordMarketFetchSuccess() {
	globalManager.marketFetchSuccess.Inc()
}

// RecordMarketFetchFailure counts a failed per-ticker fetch.
func RecordMarketFetchFailure() {
	globalManager.marketFetchFailure.Inc()
}

// RecordMarketFetchDuration observes a per-ticker fetch duration.
func RecordMarketFetchDuration(latencyMs float64) {
	globalManager.marketFetchDuration.Observe(latencyMs)
}

// RecordUpload counts a file upload with the given outcome.
func RecordUpload(outcome string) {
	globalManager.uploads.WithLabelValues(outcome).Inc()
}

// UpdateCachedRecords sets the cached financial record gauge.
func UpdateCachedRecords(count int) {
	globalManager.cachedRecords.Set(float64(count))
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the allocated memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry backing /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
