package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStreamMetrics() {
	r.StreamFramesPublished = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "relgraph_stream_frames_published_total",
			Help: "Total layout frames published to subscribers",
		},
	)

	r.StreamFramesDropped = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "relgraph_stream_frames_dropped_total",
			Help: "Total layout frames dropped on slow subscribers",
		},
	)

	r.StreamSubscribers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "relgraph_stream_subscribers",
			Help: "Currently attached frame subscribers",
		},
	)
}
