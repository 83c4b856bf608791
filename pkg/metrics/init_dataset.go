package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDatasetMetrics() {
	r.DatasetLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relgraph_dataset_loads_total",
			Help: "Total number of dataset snapshot loads",
		},
		[]string{"source", "status"},
	)

	r.DatasetLoadDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relgraph_dataset_load_duration_seconds",
			Help:    "Dataset snapshot load duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"source"},
	)

	r.DatasetBytesLoaded = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relgraph_dataset_bytes_loaded_total",
			Help: "Total bytes of snapshot data loaded",
		},
		[]string{"source"},
	)
}
