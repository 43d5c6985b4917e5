package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds cross-cutting Prometheus metrics for the HTTP surface.
// Domain packages register their own metrics alongside.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	RequestsTotal  *prometheus.CounterVec
}

// New creates and registers the platform metrics.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vetflow_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"}),

		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vetflow_http_requests_total",
			Help: "HTTP requests by route, method, and status code",
		}, []string{"route", "method", "code"}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method, code string, seconds float64) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, method).Observe(seconds)
		m.RequestsTotal.WithLabelValues(route, method, code).Inc()
	}
}
