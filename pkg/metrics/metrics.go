package metrics

import (
	"time"
)

// RecordGraphBuild records a graph build with its outcome and size
func (r *Registry) RecordGraphBuild(status string, duration time.Duration, nodes, links int) {
	r.GraphBuildsTotal.WithLabelValues(status).Inc()
	r.GraphBuildDuration.Observe(duration.Seconds())
	if status == "success" {
		r.GraphNodesTotal.Set(float64(nodes))
		r.GraphLinksTotal.Set(float64(links))
	}
}

// RecordFilterApply records a filter application
func (r *Registry) RecordFilterApply(status string, duration time.Duration, nodes, links int) {
	r.FilterAppliesTotal.WithLabelValues(status).Inc()
	r.FilterApplyDuration.Observe(duration.Seconds())
	if status == "success" {
		r.FilterNodesRetained.Observe(float64(nodes))
		r.FilterLinksRetained.Observe(float64(links))
	}
}

// RecordLayoutRun records a completed (or failed) layout run
func (r *Registry) RecordLayoutRun(status string, duration time.Duration, ticks int, finalAlpha float64, bodies int) {
	r.LayoutRunsTotal.WithLabelValues(status).Inc()
	r.LayoutRunDuration.Observe(duration.Seconds())
	r.LayoutTicksPerRun.Observe(float64(ticks))
	r.LayoutTicksTotal.Add(float64(ticks))
	r.LayoutFinalAlpha.Observe(finalAlpha)
	r.LayoutActiveBodies.Set(float64(bodies))
}

// RecordIntroSearch records a warm-introduction search
func (r *Registry) RecordIntroSearch(status string, duration time.Duration, bestHops int, bestCost float64) {
	r.IntroSearchesTotal.WithLabelValues(status).Inc()
	r.IntroSearchDuration.Observe(duration.Seconds())
	if status == "found" {
		r.IntroPathHops.Observe(float64(bestHops))
		r.IntroPathCost.Observe(bestCost)
	}

	if duration > time.Second {
		r.SlowSearches.Inc()
	}
}

// RecordDatasetLoad records a snapshot load from one source kind
func (r *Registry) RecordDatasetLoad(source, status string, duration time.Duration, bytes int) {
	r.DatasetLoadsTotal.WithLabelValues(source, status).Inc()
	r.DatasetLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if bytes > 0 {
		r.DatasetBytesLoaded.WithLabelValues(source).Add(float64(bytes))
	}
}
