// Package metrics provides Prometheus metrics for the talentflow recruiting service.
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

// Manager manages all Prometheus metrics for the talentflow service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Pipeline Metrics - what the dashboard shows
	candidatesTotal  prometheus.Gauge
	candidatesPhase  *prometheus.GaugeVec
	candidatesHired  prometheus.Gauge
	interviewsToday  prometheus.Gauge
	mutations        *prometheus.CounterVec
	statsRecomputes  prometheus.Counter
	validationErrors *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository Metrics
	repositoryLatency *prometheus.HistogramVec
	repositoryErrors  *prometheus.CounterVec

	// Queue Metrics - pipeline event queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker Metrics - notification workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter
	notificationsCreated    *prometheus.CounterVec
	notificationsDuplicate  prometheus.Counter

	// Sync Metrics
	syncRuns     *prometheus.CounterVec
	syncImported prometheus.Counter
	syncLastUnix prometheus.Gauge

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "talentflow",
		subsystem:        "ats",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval reports how often gauge updaters should run.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool {
	return m.enabled
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.candidatesTotal = auto.NewGauge(m.gaugeOpts("candidates", "Number of candidates in the pipeline"))
	m.candidatesPhase = auto.NewGaugeVec(m.gaugeOpts("candidates_by_phase", "Number of candidates per pipeline phase"), []string{"phase"})
	m.candidatesHired = auto.NewGauge(m.gaugeOpts("candidates_hired", "Number of hired candidates"))
	m.interviewsToday = auto.NewGauge(m.gaugeOpts("interviews_today", "Interviews scheduled for the current day"))
	m.mutations = auto.NewCounterVec(m.counterOpts("mutations_total", "Create/update/delete operations by entity"), []string{"entity", "op"})
	m.statsRecomputes = auto.NewCounter(m.counterOpts("stats_recomputes_total", "Dashboard stats recomputations"))
	m.validationErrors = auto.NewCounterVec(m.counterOpts("validation_errors_total", "Rejected payloads by entity"), []string{"entity"})

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.repositoryLatency = auto.NewHistogramVec(
		m.histogramOpts("repository_latency_milliseconds", "Store operation latency in milliseconds", m.histogramBuckets),
		[]string{"backend", "op"},
	)
	m.repositoryErrors = auto.NewCounterVec(m.counterOpts("repository_errors_total", "Store operation failures"), []string{"backend", "op"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the pipeline event queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the pipeline event queue"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Events accepted by the queue"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeued_total", "Events handed to workers"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Events dropped at enqueue"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Notification workers running"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Time to turn an event into a notification", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Events a worker failed to process"))
	m.notificationsCreated = auto.NewCounterVec(m.counterOpts("notifications_created_total", "Notifications created by type"), []string{"type"})
	m.notificationsDuplicate = auto.NewCounter(m.counterOpts("notifications_duplicate_total", "Events ignored because their id was already seen"))

	m.syncRuns = auto.NewCounterVec(m.counterOpts("sync_runs_total", "Sync runs by result"), []string{"result"})
	m.syncImported = auto.NewCounter(m.counterOpts("sync_imported_total", "Candidates created by sync imports"))
	m.syncLastUnix = auto.NewGauge(m.gaugeOpts("sync_last_unixtime", "Unix time of the last sync run"))

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component and type"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that ended in an error", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Pipeline Metrics Functions.

// UpdatePipelineCounts publishes the dashboard counters.
func UpdatePipelineCounts(total, phase1, phase2, hired, interviewsToday int) {
	if !globalManager.enabled {
		return
	}
	globalManager.candidatesTotal.Set(float64(total))
	globalManager.candidatesPhase.WithLabelValues("1").Set(float64(phase1))
	globalManager.candidatesPhase.WithLabelValues("2").Set(float64(phase2))
	globalManager.candidatesHired.Set(float64(hired))
	globalManager.interviewsToday.Set(float64(interviewsToday))
}

// RecordMutation counts a create/update/delete on an entity.
func RecordMutation(entity, op string) {
	globalManager.mutations.WithLabelValues(entity, op).Inc()
}

// RecordStatsRecompute counts a dashboard stats recomputation.
func RecordStatsRecompute() {
	globalManager.statsRecomputes.Inc()
}

// RecordValidationError counts a rejected payload.
func RecordValidationError(entity string) {
	globalManager.validationErrors.WithLabelValues(entity).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Repository Metrics Functions.

// RecordRepositoryLatency records the latency of a store operation.
func RecordRepositoryLatency(backend, op string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// RecordRepositoryError counts a failed store operation.
func RecordRepositoryError(backend, op string) {
	globalManager.repositoryErrors.WithLabelValues(backend, op).Inc()
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordNotificationCreated counts a notification by type.
func RecordNotificationCreated(kind string) {
	globalManager.notificationsCreated.WithLabelValues(kind).Inc()
}

// RecordNotificationDuplicate counts an event dropped as already seen.
func RecordNotificationDuplicate() {
	globalManager.notificationsDuplicate.Inc()
}

// Sync Metrics Functions.

// RecordSyncRun counts a sync run with its result ("synced" or "error") and stamps its time.
func RecordSyncRun(result string, at time.Time) {
	globalManager.syncRuns.WithLabelValues(result).Inc()
	globalManager.syncLastUnix.Set(float64(at.Unix()))
}

// RecordSyncImported adds imported candidates to the sync counter.
func RecordSyncImported(n int) {
	globalManager.syncImported.Add(float64(n))
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

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
