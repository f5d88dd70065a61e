// Package telemetry holds the Prometheus metrics and OpenTelemetry tracing
// setup shared by the service and HTTP layers.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for a write.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeRejected   = "rejected"
)

// WriteMetrics counts trip writes by operation and outcome and times them.
// A nil *WriteMetrics is valid and records nothing, so services can be
// built without a registry in tests.
type WriteMetrics struct {
	writes   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewWriteMetrics registers the write series on reg.
func NewWriteMetrics(reg prometheus.Registerer) *WriteMetrics {
	f := promauto.With(reg)
	return &WriteMetrics{
		writes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "travelmate_trip_writes_total",
			Help: "Trip writes by operation and outcome (committed, rolled_back, rejected).",
		}, []string{"operation", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travelmate_trip_write_duration_seconds",
			Help:    "Wall time of trip writes including the transaction.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// Observe records one write that started at start.
func (m *WriteMetrics) Observe(operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
