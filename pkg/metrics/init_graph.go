package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphBuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relgraph_graph_builds_total",
			Help: "Total number of graph builds",
		},
		[]string{"status"},
	)

	r.GraphBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relgraph_graph_build_duration_seconds",
			Help:    "Graph build duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "relgraph_graph_nodes",
			Help: "Node count of the most recently built graph",
		},
	)

	r.GraphLinksTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "relgraph_graph_links",
			Help: "Link count of the most recently built graph",
		},
	)
}
