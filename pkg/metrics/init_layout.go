package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relgraph_layout_runs_total",
			Help: "Total number of layout runs",
		},
		[]string{"status"},
	)

	r.LayoutRunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relgraph_layout_run_duration_seconds",
			Help:    "Layout run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.LayoutTicksPerRun = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relgraph_layout_ticks_per_run",
			Help:    "Ticks needed for a layout run to converge",
			Buckets: []float64{50, 100, 200, 300, 400, 500},
		},
	)

	r.LayoutTicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "relgraph_layout_ticks_total",
			Help: "Total simulation ticks across all runs",
		},
	)

	r.LayoutFinalAlpha = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relgraph_layout_final_alpha",
			Help:    "Alpha value at convergence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	r.LayoutActiveBodies = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "relgraph_layout_active_bodies",
			Help: "Bodies in the most recent simulation",
		},
	)
}
