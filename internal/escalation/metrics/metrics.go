package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the escalation processor.
type Metrics struct {
	// Raised escalations by rule
	EscalationsRaised *prometheus.CounterVec

	// Escalations suppressed by the per-check cooldown
	EscalationsDeduped prometheus.Counter

	// Scan cycle duration
	ScanDuration prometheus.Histogram
}

// New creates a new Metrics instance with all escalation metrics registered.
func New() *Metrics {
	return &Metrics{
		EscalationsRaised: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vetflow_escalations_raised_total",
			Help: "Total escalation events created, by rule",
		}, []string{"rule"}),

		EscalationsDeduped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vetflow_escalations_deduped_total",
			Help: "Total escalations suppressed by the 24h per-check cooldown",
		}),

		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vetflow_escalation_scan_duration_seconds",
			Help:    "Duration of full escalation scan cycles",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
	}
}

// IncrementRaised records a created escalation event.
func (m *Metrics) IncrementRaised(rule string) {
	if m != nil {
		m.EscalationsRaised.WithLabelValues(rule).Inc()
	}
}

// IncrementDeduped records a cooldown suppression.
func (m *Metrics) IncrementDeduped() {
	if m != nil {
		m.EscalationsDeduped.Inc()
	}
}

// ObserveScanDuration records a scan cycle duration in seconds.
func (m *Metrics) ObserveScanDuration(seconds float64) {
	if m != nil {
		m.ScanDuration.Observe(seconds)
	}
}
