// Package metrics provides Prometheus metrics for the bugathon scoring engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Sync Engine Metrics - What really matters for the scoring pipeline
	syncRuns         *prometheus.CounterVec
	syncStepFailures *prometheus.CounterVec
	syncDuration     prometheus.Histogram
	ticketsProcessed prometheus.Counter

	// Business Scale Metrics
	ticketsTracked      prometheus.Gauge
	usersTracked        prometheus.Gauge
	achievementsGranted prometheus.Counter
	lastSyncUnix        prometheus.Gauge

	// Store Metrics
	storeOpLatency *prometheus.HistogramVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bugathon",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.syncRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sync_runs_total",
			Help:      "Total number of sync runs by outcome",
		},
		[]string{"outcome"},
	)

	m.syncStepFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sync_step_failures_total",
			Help:      "Total number of sync failures by originating step",
		},
		[]string{"step"},
	)

	m.syncDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_duration_seconds",
		Help:      "Histogram of full sync run duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.ticketsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tickets_processed_total",
		Help:      "Total number of tickets normalized and written across all runs",
	})

	m.ticketsTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tickets_tracked",
		Help:      "Number of tickets in the latest persisted snapshot",
	})

	m.usersTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "users_tracked",
		Help:      "Number of users with a computed score",
	})

	m.achievementsGranted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "achievements_granted_total",
		Help:      "Total number of newly granted achievements",
	})

	m.lastSyncUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_sync_timestamp_seconds",
		Help:      "Unix time of the last successful sync run",
	})

	m.storeOpLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_operation_duration_seconds",
			Help:      "Store operation latency in seconds by operation",
			Buckets:   m.histogramBuckets,
		},
		[]string{"operation"},
	)

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
}

// Global helper functions backed by the singleton manager.

// RecordSyncRun counts a finished run with its outcome ("success"/"failure").
func RecordSyncRun(outcome string) {
	globalManager.syncRuns.WithLabelValues(outcome).Inc()
}

// RecordSyncStepFailure counts a failure attributed to a pipeline step.
func RecordSyncStepFailure(step string) {
	globalManager.syncStepFailures.WithLabelValues(step).Inc()
}

// RecordSyncDuration observes the duration of a full run in seconds.
func RecordSyncDuration(seconds float64) {
	globalManager.syncDuration.Observe(seconds)
}

// RecordTicketsProcessed counts tickets written by a run.
func RecordTicketsProcessed(n int) {
	globalManager.ticketsProcessed.Add(float64(n))
}

// UpdateTicketsTracked sets the current snapshot size.
func UpdateTicketsTracked(n int) {
	globalManager.ticketsTracked.Set(float64(n))
}

// UpdateUsersTracked sets the number of scored users.
func UpdateUsersTracked(n int) {
	globalManager.usersTracked.Set(float64(n))
}

// RecordAchievementGranted counts a newly inserted achievement row.
func RecordAchievementGranted() {
	globalManager.achievementsGranted.Inc()
}

// UpdateLastSync records the wall-clock time of a successful run.
func UpdateLastSync(unixSeconds float64) {
	globalManager.lastSyncUnix.Set(unixSeconds)
}

// RecordStoreOperation observes one store call's latency.
func RecordStoreOperation(operation string, seconds float64) {
	globalManager.storeOpLatency.WithLabelValues(operation).Observe(seconds)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry for serving /healthz metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
