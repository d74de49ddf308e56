package metrics

import (
	"strings"
	"testing"
)

func TestRenderExposesAllSeries(t *testing.T) {
	out := Render()
	for _, name := range []string{
		"analysis_started_total",
		"analysis_completed_total",
		"analysis_degraded_total",
		"analysis_failed_total",
		"question_streamed_total",
		"tts_requests_total",
		"temp_sweep_removed_total",
		"analysis_duration_ms_bucket",
		"analysis_duration_ms_sum",
		"analysis_duration_ms_count",
	} {
		if !strings.Contains(out, name) {
			t.Errorf("expected series %q in exposition", name)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100, 1000})
	h.Observe(5)
	h.Observe(50)
	h.Observe(50)
	h.Observe(5000)

	snap := h.Snapshot()
	if snap.count != 4 {
		t.Fatalf("expected count 4, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 2 || snap.counts[2] != 0 {
		t.Fatalf("unexpected bucket counts %v", snap.counts)
	}
	if snap.sum != 5105 {
		t.Fatalf("unexpected sum %v", snap.sum)
	}
}

func TestAddTempSweepRemovedIgnoresNonPositive(t *testing.T) {
	before := tempSweepRemovedTotal.Load()
	AddTempSweepRemoved(0)
	AddTempSweepRemoved(-3)
	if tempSweepRemovedTotal.Load() != before {
		t.Fatal("non-positive increments must be ignored")
	}
	AddTempSweepRemoved(2)
	if tempSweepRemovedTotal.Load() != before+2 {
		t.Fatal("positive increment not recorded")
	}
}
