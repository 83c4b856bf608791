package metrics

import (
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify all metrics are initialized
	if r.GraphBuildsTotal == nil {
		t.Error("GraphBuildsTotal not initialized")
	}
	if r.FilterAppliesTotal == nil {
		t.Error("FilterAppliesTotal not initialized")
	}
	if r.LayoutRunsTotal == nil {
		t.Error("LayoutRunsTotal not initialized")
	}
	if r.IntroSearchesTotal == nil {
		t.Error("IntroSearchesTotal not initialized")
	}
	if r.DatasetLoadsTotal == nil {
		t.Error("DatasetLoadsTotal not initialized")
	}
	if r.StreamFramesPublished == nil {
		t.Error("StreamFramesPublished not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordGraphBuild(t *testing.T) {
	r := NewRegistry()

	r.RecordGraphBuild("success", 10*time.Millisecond, 120, 340)
	r.RecordGraphBuild("success", 12*time.Millisecond, 130, 360)
	r.RecordGraphBuild("error", 1*time.Millisecond, 0, 0)

	counter, err := r.GraphBuildsTotal.GetMetricWithLabelValues("success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Success counter = %v, want 2", metric.Counter.GetValue())
	}

	// Failed builds must not overwrite the size gauges
	if err := r.GraphNodesTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 130 {
		t.Errorf("GraphNodesTotal = %v, want 130", metric.Gauge.GetValue())
	}
}

func TestRecordFilterApply(t *testing.T) {
	r := NewRegistry()

	r.RecordFilterApply("success", 2*time.Millisecond, 40, 80)

	counter, err := r.FilterAppliesTotal.GetMetricWithLabelValues("success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Filter counter = %v, want 1", metric.Counter.GetValue())
	}

	if err := r.FilterNodesRetained.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 1 {
		t.Errorf("Retained sample count = %v, want 1", metric.Histogram.GetSampleCount())
	}
}

func TestRecordLayoutRun(t *testing.T) {
	r := NewRegistry()

	r.RecordLayoutRun("success", 500*time.Millisecond, 187, 0.0048, 120)
	r.RecordLayoutRun("success", 300*time.Millisecond, 113, 0.0049, 120)

	var metric dto.Metric
	if err := r.LayoutTicksTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 300 {
		t.Errorf("Ticks total = %v, want 300", metric.Counter.GetValue())
	}

	if err := r.LayoutTicksPerRun.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("Ticks-per-run sample count = %v, want 2", metric.Histogram.GetSampleCount())
	}

	if err := r.LayoutActiveBodies.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 120 {
		t.Errorf("Active bodies = %v, want 120", metric.Gauge.GetValue())
	}
}

func TestRecordIntroSearch(t *testing.T) {
	r := NewRegistry()

	r.RecordIntroSearch("found", 5*time.Millisecond, 3, 5.15)
	r.RecordIntroSearch("not_found", 2*time.Millisecond, 0, 0)
	r.RecordIntroSearch("found", 2*time.Second, 2, 3.4)

	found, err := r.IntroSearchesTotal.GetMetricWithLabelValues("found")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := found.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Found counter = %v, want 2", metric.Counter.GetValue())
	}

	// Misses contribute no hop or cost samples
	if err := r.IntroPathHops.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("Hops sample count = %v, want 2", metric.Histogram.GetSampleCount())
	}

	// The 2s search crosses the slow threshold
	if err := r.SlowSearches.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Slow searches = %v, want 1", metric.Counter.GetValue())
	}
}

func TestRecordDatasetLoad(t *testing.T) {
	r := NewRegistry()

	r.RecordDatasetLoad("file", "success", 20*time.Millisecond, 4096)
	r.RecordDatasetLoad("file", "success", 25*time.Millisecond, 8192)
	r.RecordDatasetLoad("s3", "error", 100*time.Millisecond, 0)

	bytes, err := r.DatasetBytesLoaded.GetMetricWithLabelValues("file")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := bytes.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 12288 {
		t.Errorf("Bytes loaded = %v, want 12288", metric.Counter.GetValue())
	}

	errCounter, _ := r.DatasetLoadsTotal.GetMetricWithLabelValues("s3", "error")
	if err := errCounter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("S3 error counter = %v, want 1", metric.Counter.GetValue())
	}
}

func TestStreamMetrics(t *testing.T) {
	r := NewRegistry()

	r.StreamFramesPublished.Add(10)
	r.StreamFramesDropped.Inc()
	r.StreamSubscribers.Set(3)

	var metric dto.Metric
	if err := r.StreamFramesPublished.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 10 {
		t.Errorf("Frames published = %v, want 10", metric.Counter.GetValue())
	}

	if err := r.StreamSubscribers.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 3 {
		t.Errorf("Subscribers = %v, want 3", metric.Gauge.GetValue())
	}
}

func TestGetPrometheusRegistry(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	if promRegistry == nil {
		t.Fatal("GetPrometheusRegistry() returned nil")
	}

	// Verify we can gather metrics
	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	if len(metrics) == 0 {
		t.Error("No metrics registered")
	}

	// Verify some expected metrics exist
	expectedMetrics := []string{
		"relgraph_graph_nodes",
		"relgraph_layout_ticks_total",
		"relgraph_intro_search_duration_seconds",
	}

	metricNames := make(map[string]bool)
	for _, m := range metrics {
		metricNames[m.GetName()] = true
	}

	for _, expected := range expectedMetrics {
		if !metricNames[expected] {
			t.Errorf("Expected metric %s not found", expected)
		}
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	// Verify all metrics have the relgraph_ prefix
	for _, m := range metrics {
		name := m.GetName()
		if !strings.HasPrefix(name, "relgraph_") {
			t.Errorf("Metric %s does not have relgraph_ prefix", name)
		}
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.RecordIntroSearch("found", time.Millisecond, 2, 3.0)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	counter, err := r.IntroSearchesTotal.GetMetricWithLabelValues("found")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1000 {
		t.Errorf("Counter = %v, want 1000", metric.Counter.GetValue())
	}
}

func BenchmarkRecordIntroSearch(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordIntroSearch("found", 5*time.Millisecond, 3, 5.15)
	}
}

func BenchmarkSetGauge(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.GraphNodesTotal.Set(float64(i))
	}
}
