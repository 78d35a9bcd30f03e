package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.RunsTotal == nil {
		t.Error("RunsTotal not initialized")
	}
	if r.RunDuration == nil {
		t.Error("RunDuration not initialized")
	}
	if r.MovesTotal == nil {
		t.Error("MovesTotal not initialized")
	}
	if r.ExpansionAdmittedTotal == nil {
		t.Error("ExpansionAdmittedTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()

	r.RecordRun("modularity", StatusSuccess, 10*time.Millisecond, 0.5)
	r.RecordRun("modularity", StatusSuccess, 20*time.Millisecond, 0.25)
	r.RecordRun("modularity", StatusError, time.Millisecond, 99)

	ok, err := r.RunsTotal.GetMetricWithLabelValues("modularity", StatusSuccess)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := counterValue(t, ok); got != 2 {
		t.Errorf("successful runs = %v, want 2", got)
	}

	failed, err := r.RunsTotal.GetMetricWithLabelValues("modularity", StatusError)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := counterValue(t, failed); got != 1 {
		t.Errorf("failed runs = %v, want 1", got)
	}

	// Failed runs must not overwrite the last good score
	gauge, err := r.FinalScore.GetMetricWithLabelValues("modularity")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.Gauge.GetValue(); got != 0.25 {
		t.Errorf("final score = %v, want 0.25", got)
	}
}

func TestRecordLevel(t *testing.T) {
	r := NewRegistry()

	r.RecordLevel("linearity", 6, 2, 4, time.Millisecond)
	r.RecordLevel("linearity", 2, 1, 0, time.Millisecond)

	levels, _ := r.LevelsTotal.GetMetricWithLabelValues("linearity")
	if got := counterValue(t, levels); got != 2 {
		t.Errorf("levels = %v, want 2", got)
	}

	moves, _ := r.MovesTotal.GetMetricWithLabelValues("linearity")
	if got := counterValue(t, moves); got != 4 {
		t.Errorf("moves = %v, want 4", got)
	}

	sweeps, _ := r.SweepsTotal.GetMetricWithLabelValues("linearity")
	if got := counterValue(t, sweeps); got != 3 {
		t.Errorf("sweeps = %v, want 3", got)
	}
}

func TestRecordExpansion(t *testing.T) {
	r := NewRegistry()

	r.RecordExpansion(3, time.Millisecond)
	r.RecordExpansion(0, time.Millisecond)

	if got := counterValue(t, r.ExpansionAdmittedTotal); got != 3 {
		t.Errorf("admitted = %v, want 3", got)
	}
}

func TestMetricsGathering(t *testing.T) {
	r := NewRegistry()
	r.RecordRun("modularity", StatusSuccess, time.Millisecond, 0.4)
	r.RecordLevel("modularity", 10, 2, 5, time.Millisecond)

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("No metrics gathered")
	}

	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "communities_") {
			t.Errorf("metric %s lacks the communities_ prefix", mf.GetName())
		}
	}
}
