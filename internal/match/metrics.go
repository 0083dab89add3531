package match

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricSearches       = "weekend_searches_total"
	MetricSourceFailures = "weekend_source_failures_total"
	MetricMatchedEvents  = "weekend_matched_events"
)

// Metrics contains Prometheus metrics for the matching engine. All methods
// are safe to call on a nil receiver so the engine can run unmetered in
// tests.
type Metrics struct {
	searches       prometheus.Counter
	sourceFailures *prometheus.CounterVec
	matchedEvents  prometheus.Histogram
}

// NewMetrics creates a Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them.
func NewMetrics() *Metrics {
	return &Metrics{
		searches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricSearches,
				Help: "Total number of weekend matching calls",
			},
		),
		sourceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSourceFailures,
				Help: "Total number of absorbed event-source sub-query failures by source",
			},
			[]string{"source"},
		),
		matchedEvents: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricMatchedEvents,
				Help:    "Number of matched events returned per weekend search",
				Buckets: []float64{0, 1, 2, 5, 10, 20},
			},
		),
	}
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.searches,
		m.sourceFailures,
		m.matchedEvents,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Search records one matching call.
func (m *Metrics) Search() {
	if m == nil {
		return
	}
	m.searches.Inc()
}

// SourceFailure records one absorbed sub-query failure for a source
// ("concerts" or "sports").
func (m *Metrics) SourceFailure(source string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(source).Inc()
}

// Matched records the size of a returned match set.
func (m *Metrics) Matched(n int) {
	if m == nil {
		return
	}
	m.matchedEvents.Observe(float64(n))
}
