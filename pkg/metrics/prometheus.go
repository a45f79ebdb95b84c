// Package metrics provides Prometheus metrics for the estateai service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset loading
	datasetLoads        prometheus.Counter
	datasetLoadFailures prometheus.Counter
	datasetLoadLatency  prometheus.Histogram
	datasetRows         *prometheus.CounterVec
	datasetSize         prometheus.Gauge

	// Ranking and aggregation
	rankingsServed   *prometheus.CounterVec
	rankingLatency   prometheus.Histogram
	candidatesScored prometheus.Counter
	heatmapCells     prometheus.Histogram

	// Investment
	investmentComputations prometheus.Counter
	investmentRejected     *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global manager on a custom registry so default Go collectors stay out.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton metrics manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "estateai",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)

	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		})
	}
	histogram := func(name, help string, buckets []float64) prometheus.Histogram {
		return auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			Buckets: buckets, ConstLabels: m.constLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		}, labels)
	}

	m.datasetLoads = counter("dataset_loads_total", "Number of successful dataset loads")
	m.datasetLoadFailures = counter("dataset_load_failures_total", "Number of dataset loads that could not read the source")
	m.datasetLoadLatency = histogram("dataset_load_duration_milliseconds", "Dataset fetch and decode time in milliseconds",
		[]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000})
	m.datasetRows = counterVec("dataset_rows_total", "Dataset rows by load outcome", "outcome")
	m.datasetSize = gauge("dataset_records", "Records currently held in the dataset cache")

	m.rankingsServed = counterVec("rankings_total", "Rankings computed by kind", "kind")
	m.rankingLatency = histogram("ranking_duration_milliseconds", "Similarity ranking time in milliseconds", m.histogramBuckets)
	m.candidatesScored = counter("candidates_scored_total", "Candidates passed through the similarity scorer")
	m.heatmapCells = histogram("heatmap_cells", "Grid cells produced per aggregation",
		[]float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000})

	m.investmentComputations = counter("investment_computations_total", "Investment metric computations")
	m.investmentRejected = counterVec("investment_rejected_total", "Investment requests rejected as invalid input", "field")

	m.httpRequests = counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = gauge("system_goroutines", "Number of goroutines")
}

// Dataset outcomes used as the "outcome" label of dataset_rows_total.
const (
	RowsAccepted       = "accepted"
	RowsSkippedShort   = "skipped_short"
	RowsMalformed      = "malformed"
	RowsDefaulted      = "defaulted"
	RowsRejectedPrice  = "rejected_price"
	RowsOutOfRegion    = "out_of_region"
	RowsRejectedStrict = "rejected_strict"
	RowsDuplicate      = "duplicate"
)

// Ranking kinds used as the "kind" label of rankings_total.
const (
	KindSimilar    = "similar"
	KindInvestment = "investment"
	KindHeatmap    = "heatmap"
)

// RecordDatasetLoad records one successful load.
func (m *Manager) RecordDatasetLoad(latencyMs float64, size int) {
	if !m.enabled {
		return
	}
	m.datasetLoads.Inc()
	m.datasetLoadLatency.Observe(latencyMs)
	m.datasetSize.Set(float64(size))
}

// RecordDatasetLoadFailure records a source that could not be read.
func (m *Manager) RecordDatasetLoadFailure() {
	if m.enabled {
		m.datasetLoadFailures.Inc()
	}
}

// AddDatasetRows adds n rows to the given outcome.
func (m *Manager) AddDatasetRows(outcome string, n int) {
	if m.enabled && n > 0 {
		m.datasetRows.WithLabelValues(outcome).Add(float64(n))
	}
}

// UpdateDatasetSize sets the cached record gauge.
func (m *Manager) UpdateDatasetSize(n int) {
	if m.enabled {
		m.datasetSize.Set(float64(n))
	}
}

// RecordRanking records a ranking of the given kind over n candidates.
func (m *Manager) RecordRanking(kind string, candidates int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.rankingsServed.WithLabelValues(kind).Inc()
	m.candidatesScored.Add(float64(candidates))
	m.rankingLatency.Observe(latencyMs)
}

// RecordHeatmap records an aggregation producing cells grid cells.
func (m *Manager) RecordHeatmap(cells int) {
	if !m.enabled {
		return
	}
	m.rankingsServed.WithLabelValues(KindHeatmap).Inc()
	m.heatmapCells.Observe(float64(cells))
}

// RecordInvestment records n investment computations.
func (m *Manager) RecordInvestment(n int) {
	if m.enabled && n > 0 {
		m.investmentComputations.Add(float64(n))
	}
}

// RecordInvestmentRejected records an invalid-input rejection for field.
func (m *Manager) RecordInvestmentRejected(field string) {
	if m.enabled {
		m.investmentRejected.WithLabelValues(field).Inc()
	}
}

// RecordHTTPRequest records one request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystem sets the process gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// Package-level helpers delegate to the global manager.

func RecordDatasetLoad(latencyMs float64, size int) { globalManager.RecordDatasetLoad(latencyMs, size) }
func RecordDatasetLoadFailure()                     { globalManager.RecordDatasetLoadFailure() }
func AddDatasetRows(outcome string, n int)          { globalManager.AddDatasetRows(outcome, n) }
func UpdateDatasetSize(n int)                       { globalManager.UpdateDatasetSize(n) }
func RecordHeatmap(cells int)                       { globalManager.RecordHeatmap(cells) }
func RecordInvestment(n int)                        { globalManager.RecordInvestment(n) }
func RecordInvestmentRejected(field string)         { globalManager.RecordInvestmentRejected(field) }
func UpdateSystem(memoryBytes uint64, goroutines int) {
	globalManager.UpdateSystem(memoryBytes, goroutines)
}

func RecordRanking(kind string, candidates int, latencyMs float64) {
	globalManager.RecordRanking(kind, candidates, latencyMs)
}

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// Configure rebuilds the global manager with opts on a fresh registry and
// returns that registry. Call it before serving; handlers built earlier keep
// the old registry.
func Configure(opts ...Option) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(reg))...)
	customRegistry = reg
	return reg
}

// GetRegistry returns the registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
