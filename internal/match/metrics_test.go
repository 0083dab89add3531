package match

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestMetricsRegister verifies all collectors register on a fresh registry.
func TestMetricsRegister(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()

	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	// Double registration must fail.
	if err := m.Register(reg); err == nil {
		t.Error("expected error on duplicate registration")
	}
}

// TestMetricsNilSafe verifies recording methods are no-ops on a nil receiver.
func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.Search()
	m.SourceFailure("concerts")
	m.Matched(5)
}

// TestMetricsRecording verifies counters advance when recorded.
func TestMetricsRecording(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	m.Search()
	m.SourceFailure("sports")
	m.Matched(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{MetricSearches, MetricSourceFailures, MetricMatchedEvents} {
		if !found[name] {
			t.Errorf("metric %s not gathered", name)
		}
	}
}
