package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Graph Metrics
	GraphBuildsTotal   *prometheus.CounterVec
	GraphBuildDuration prometheus.Histogram
	GraphNodesTotal    prometheus.Gauge
	GraphLinksTotal    prometheus.Gauge

	// Filter Metrics
	FilterAppliesTotal  *prometheus.CounterVec
	FilterApplyDuration prometheus.Histogram
	FilterNodesRetained prometheus.Histogram
	FilterLinksRetained prometheus.Histogram

	// Layout Metrics
	LayoutRunsTotal     *prometheus.CounterVec
	LayoutRunDuration   prometheus.Histogram
	LayoutTicksPerRun   prometheus.Histogram
	LayoutTicksTotal    prometheus.Counter
	LayoutFinalAlpha    prometheus.Histogram
	LayoutActiveBodies  prometheus.Gauge

	// Intro (path search) Metrics
	IntroSearchesTotal  *prometheus.CounterVec
	IntroSearchDuration prometheus.Histogram
	IntroPathHops       prometheus.Histogram
	IntroPathCost       prometheus.Histogram
	SlowSearches        prometheus.Counter

	// Dataset Metrics
	DatasetLoadsTotal   *prometheus.CounterVec
	DatasetLoadDuration *prometheus.HistogramVec
	DatasetBytesLoaded  *prometheus.CounterVec

	// Stream Metrics
	StreamFramesPublished prometheus.Counter
	StreamFramesDropped   prometheus.Counter
	StreamSubscribers     prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initGraphMetrics()
	r.initFilterMetrics()
	r.initLayoutMetrics()
	r.initIntroMetrics()
	r.initDatasetMetrics()
	r.initStreamMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
