// Package metrics provides Prometheus metrics for the tripfinder service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the tripfinder service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Search Metrics
	searchesTotal        *prometheus.CounterVec
	searchDuration       prometheus.Histogram
	searchCandidates     prometheus.Histogram
	searchesInFlight     prometheus.Gauge
	supersededBatches    prometheus.Counter
	catalogLookupLatency prometheus.Histogram

	// Enrichment Metrics
	enrichmentCalls   *prometheus.CounterVec
	enrichmentLatency *prometheus.HistogramVec
	degradedResults   *prometheus.CounterVec
	panicsRecovered   prometheus.Counter

	// Render Metrics
	renderedBatches *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tripfinder",
		subsystem:        "search",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	// Search Metrics
	m.searchesTotal = auto.NewCounterVec(
		m.counterOpts("searches_total", "Total number of searches by outcome"),
		[]string{"outcome"},
	)
	m.searchDuration = auto.NewHistogram(
		m.histogramOpts("search_duration_milliseconds", "End-to-end search duration in milliseconds"),
	)
	m.searchCandidates = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "search_candidates",
		Help:        "Number of candidate destinations per search",
		Buckets:     []float64{0, 1, 2, 4, 8, 16, 32},
		ConstLabels: m.constLabels,
	})
	m.searchesInFlight = auto.NewGauge(
		m.gaugeOpts("searches_in_flight", "Number of searches currently running"),
	)
	m.supersededBatches = auto.NewCounter(
		m.counterOpts("superseded_batches_total", "Total number of batches discarded because a newer search started"),
	)
	m.catalogLookupLatency = auto.NewHistogram(
		m.histogramOpts("catalog_lookup_latency_milliseconds", "Destination catalog lookup latency in milliseconds"),
	)

	// Enrichment Metrics
	m.enrichmentCalls = auto.NewCounterVec(
		m.counterOpts("enrichment_calls_total", "Total number of enrichment calls by provider and outcome"),
		[]string{"provider", "outcome", "reason"},
	)
	m.enrichmentLatency = auto.NewHistogramVec(
		m.histogramOpts("enrichment_latency_milliseconds", "Enrichment call latency in milliseconds"),
		[]string{"provider"},
	)
	m.degradedResults = auto.NewCounterVec(
		m.counterOpts("degraded_results_total", "Total number of results with at least one placeholder field"),
		[]string{"field"},
	)
	m.panicsRecovered = auto.NewCounter(
		m.counterOpts("pipeline_panics_recovered_total", "Total number of panics recovered inside the aggregation pipeline"),
	)

	// Render Metrics
	m.renderedBatches = auto.NewCounterVec(
		m.counterOpts("rendered_batches_total", "Total number of batches rendered by sink"),
		[]string{"sink"},
	)

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.rateLimited = auto.NewCounterVec(
		m.counterOpts("http_rate_limited_total", "Total number of requests rejected by the rate limiter"),
		[]string{"endpoint"},
	)

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// Search Metrics Functions.

// RecordSearch increments the searches counter for outcome
// (ok, empty, superseded, invalid, failed).
func RecordSearch(outcome string) {
	globalManager.searchesTotal.WithLabelValues(outcome).Inc()
}

// RecordSearchDuration records end-to-end search duration.
func RecordSearchDuration(durationMs float64) {
	globalManager.searchDuration.Observe(durationMs)
}

// RecordSearchCandidates records how many candidates a search enriched.
func RecordSearchCandidates(count int) {
	globalManager.searchCandidates.Observe(float64(count))
}

// IncSearchesInFlight marks a search as started.
func IncSearchesInFlight() {
	globalManager.searchesInFlight.Inc()
}

// DecSearchesInFlight marks a search as finished.
func DecSearchesInFlight() {
	globalManager.searchesInFlight.Dec()
}

// RecordSupersededBatch increments the discarded batch counter.
func RecordSupersededBatch() {
	globalManager.supersededBatches.Inc()
}

// RecordCatalogLookupLatency records catalog lookup latency.
func RecordCatalogLookupLatency(latencyMs float64) {
	globalManager.catalogLookupLatency.Observe(latencyMs)
}

// Enrichment Metrics Functions.

// RecordEnrichmentCall records one provider call. reason is empty for live results.
func RecordEnrichmentCall(provider, outcome, reason string) {
	globalManager.enrichmentCalls.WithLabelValues(provider, outcome, reason).Inc()
}

// RecordEnrichmentLatency records provider call latency.
func RecordEnrichmentLatency(provider string, latencyMs float64) {
	globalManager.enrichmentLatency.WithLabelValues(provider).Observe(latencyMs)
}

// RecordDegradedResult increments the degraded counter for field (weather, activities).
func RecordDegradedResult(field string) {
	globalManager.degradedResults.WithLabelValues(field).Inc()
}

// RecordPanicRecovered increments the recovered panic counter.
func RecordPanicRecovered() {
	globalManager.panicsRecovered.Inc()
}

// RecordRenderedBatch increments the rendered batch counter for sink.
func RecordRenderedBatch(sink string) {
	globalManager.renderedBatches.WithLabelValues(sink).Inc()
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

// RecordRateLimited increments the rate limited counter for endpoint.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
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
