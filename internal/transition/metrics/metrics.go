package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the transition engine.
type Metrics struct {
	// Applied transitions by rule name
	TransitionsApplied *prometheus.CounterVec

	// Manual cancellations
	Cancellations prometheus.Counter
}

// New creates a new Metrics instance with all transition metrics registered.
func New() *Metrics {
	return &Metrics{
		TransitionsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vetflow_transitions_applied_total",
			Help: "Total automatic status transitions applied, by rule",
		}, []string{"rule"}),

		Cancellations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vetflow_check_cancellations_total",
			Help: "Total manual check cancellations",
		}),
	}
}

// IncrementApplied records an applied transition.
func (m *Metrics) IncrementApplied(rule string) {
	if m != nil {
		m.TransitionsApplied.WithLabelValues(rule).Inc()
	}
}

// IncrementCancelled records a manual cancellation.
func (m *Metrics) IncrementCancelled() {
	if m != nil {
		m.Cancellations.Inc()
	}
}
