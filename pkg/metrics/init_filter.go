package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFilterMetrics() {
	r.FilterAppliesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relgraph_filter_applies_total",
			Help: "Total number of filter applications",
		},
		[]string{"status"},
	)

	r.FilterApplyDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relgraph_filter_apply_duration_seconds",
			Help:    "Filter application duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)

	r.FilterNodesRetained = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relgraph_filter_nodes_retained",
			Help:    "Nodes surviving a filter application",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	r.FilterLinksRetained = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relgraph_filter_links_retained",
			Help:    "Links surviving a filter application",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
	)
}
