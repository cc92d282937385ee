// Package metrics provides Prometheus metrics for the intelligence panel.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the panel service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Contract Metrics - publish volume and quality
	contractPublishes  *prometheus.CounterVec
	publishErrors      *prometheus.CounterVec
	prepUpdates        prometheus.Counter
	contractConfidence *prometheus.GaugeVec

	// Journey Metrics - unlock and completion activity
	productUnlocks     *prometheus.CounterVec
	productCompletions *prometheus.CounterVec
	forceUnlocks       prometheus.Counter

	// Snapshot Metrics - persistence round-trips
	snapshotSaves        prometheus.Counter
	snapshotRestores     prometheus.Counter
	snapshotCreates      prometheus.Counter
	snapshotFailures     prometheus.Counter
	snapshotCorrupt      prometheus.Counter
	snapshotLastSaveUnix prometheus.Gauge
	snapshotSaveLatency  prometheus.Histogram

	// Bus Metrics - fan-out health
	busEmits       prometheus.Counter
	listenerErrors prometheus.Counter

	// Session Metrics
	activeSessions prometheus.Gauge
	eventLogSize   prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "guidepost",
		subsystem:        "panel",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
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

	// Contract Metrics
	m.contractPublishes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "contract_publishes_total",
			Help:      "Total number of contract publishes by contract type",
		},
		[]string{"contract"},
	)

	m.publishErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "publish_errors_total",
			Help:      "Total number of rejected publishes by contract type",
		},
		[]string{"contract"},
	)

	m.prepUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prep_updates_total",
		Help:      "Total number of appointment prep progress updates",
	})

	m.contractConfidence = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "contract_confidence",
			Help:      "Confidence of the most recently published contract",
		},
		[]string{"contract"},
	)

	// Journey Metrics
	m.productUnlocks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "product_unlocks_total",
			Help:      "Total number of product unlocks by product id",
		},
		[]string{"product"},
	)

	m.productCompletions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "product_completions_total",
			Help:      "Total number of product completions by product id",
		},
		[]string{"product"},
	)

	m.forceUnlocks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "force_unlocks_total",
		Help:      "Total number of direct-access unlock overrides",
	})

	// Snapshot Metrics
	m.snapshotSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_saves_total",
		Help:      "Total number of snapshot saves",
	})

	m.snapshotRestores = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_restores_total",
		Help:      "Total number of sessions restored from a snapshot",
	})

	m.snapshotCreates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_creates_total",
		Help:      "Total number of sessions initialized from fresh defaults",
	})

	m.snapshotFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_failures_total",
		Help:      "Total number of snapshot save failures (absorbed, not fatal)",
	})

	m.snapshotCorrupt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_corrupt_total",
		Help:      "Total number of snapshots discarded as unreadable",
	})

	m.snapshotLastSaveUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_save_unix",
		Help:      "Unix timestamp of the last successful snapshot save",
	})

	m.snapshotSaveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_save_latency_milliseconds",
		Help:      "Snapshot save latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Bus Metrics
	m.busEmits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bus_emits_total",
		Help:      "Total number of events emitted on the bus",
	})

	m.listenerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "listener_errors_total",
		Help:      "Total number of listener panics recovered during fan-out",
	})

	// Session Metrics
	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Number of panel instances currently held in memory",
	})

	m.eventLogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_log_size",
		Help:      "Entries in the largest per-session event log",
	})

	// HTTP Performance Metrics
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

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordContractPublish increments the publish counter for a contract type.
func RecordContractPublish(contract string) {
	globalManager.contractPublishes.WithLabelValues(contract).Inc()
}

// RecordPublishError increments the rejected-publish counter.
func RecordPublishError(contract string) {
	globalManager.publishErrors.WithLabelValues(contract).Inc()
}

// RecordPrepUpdate increments the prep update counter.
func RecordPrepUpdate() {
	globalManager.prepUpdates.Inc()
}

// UpdateContractConfidence sets the latest confidence for a contract type.
func UpdateContractConfidence(contract string, confidence float64) {
	globalManager.contractConfidence.WithLabelValues(contract).Set(confidence)
}

// RecordProductUnlock increments the unlock counter for a product.
func RecordProductUnlock(product string) {
	globalManager.productUnlocks.WithLabelValues(product).Inc()
}

// RecordProductCompletion increments the completion counter for a product.
func RecordProductCompletion(product string) {
	globalManager.productCompletions.WithLabelValues(product).Inc()
}

// RecordForceUnlock increments the direct-access override counter.
func RecordForceUnlock() {
	globalManager.forceUnlocks.Inc()
}

// RecordSnapshotSave increments the save counter and stamps the save time.
func RecordSnapshotSave() {
	globalManager.snapshotSaves.Inc()
	globalManager.snapshotLastSaveUnix.Set(float64(time.Now().Unix()))
}

// RecordSnapshotRestore increments the restored-session counter.
func RecordSnapshotRestore() {
	globalManager.snapshotRestores.Inc()
}

// RecordSnapshotCreate increments the fresh-defaults counter.
func RecordSnapshotCreate() {
	globalManager.snapshotCreates.Inc()
}

// RecordSnapshotFailure increments the absorbed save-failure counter.
func RecordSnapshotFailure() {
	globalManager.snapshotFailures.Inc()
}

// RecordSnapshotCorrupt increments the unreadable-snapshot counter.
func RecordSnapshotCorrupt() {
	globalManager.snapshotCorrupt.Inc()
}

// RecordSnapshotSaveLatency records snapshot save latency in milliseconds.
func RecordSnapshotSaveLatency(latencyMs float64) {
	globalManager.snapshotSaveLatency.Observe(latencyMs)
}

// RecordBusEmit increments the bus emission counter.
func RecordBusEmit() {
	globalManager.busEmits.Inc()
}

// RecordListenerError increments the recovered listener panic counter.
func RecordListenerError() {
	globalManager.listenerErrors.Inc()
}

// UpdateActiveSessions sets the number of in-memory panel instances.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// UpdateEventLogSize sets the event log size gauge.
func UpdateEventLogSize(size int) {
	globalManager.eventLogSize.Set(float64(size))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
