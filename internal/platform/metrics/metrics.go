// Package metrics registers the Prometheus instruments exposed by the
// checkout fields server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RequestsServed       *prometheus.CounterVec
	SubmissionsSaved     prometheus.Counter
	ValidationRejections prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestsServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_fields_requests_total",
			Help: "Total API requests served, by operation",
		}, []string{"operation"}),
		SubmissionsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "checkout_fields_submissions_saved_total",
			Help: "Total checkout submissions persisted with custom field values",
		}),
		ValidationRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "checkout_fields_validation_rejections_total",
			Help: "Total requests rejected by schema or submission validation",
		}),
	}
}

// RequestServed records one completed request for the named operation.
func (m *Metrics) RequestServed(op string) {
	m.RequestsServed.WithLabelValues(op).Inc()
}

// SubmissionSaved records one persisted checkout submission.
func (m *Metrics) SubmissionSaved() {
	m.SubmissionsSaved.Inc()
}

// ValidationRejected records one validation rejection.
func (m *Metrics) ValidationRejected() {
	m.ValidationRejections.Inc()
}
