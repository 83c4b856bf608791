package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initIntroMetrics() {
	r.IntroSearchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relgraph_intro_searches_total",
			Help: "Total number of warm-introduction searches",
		},
		[]string{"status"},
	)

	r.IntroSearchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relgraph_intro_search_duration_seconds",
			Help:    "Warm-introduction search duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 5.0},
		},
	)

	r.IntroPathHops = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relgraph_intro_path_hops",
			Help:    "Hop count of the best path found per search",
			Buckets: []float64{1, 2, 3, 4, 5, 6},
		},
	)

	r.IntroPathCost = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relgraph_intro_path_cost",
			Help:    "Total cost of the best path found per search",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)

	r.SlowSearches = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "relgraph_intro_slow_searches_total",
			Help: "Total number of slow searches (>1s)",
		},
	)
}
