// Package metrics exposes Prometheus collectors for link decisions and store calls
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "iron_presign"

// Decision outcomes
const (
	OutcomeIssued  = "issued"
	OutcomeBlocked = "blocked"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// decisionsTotal counts pipeline outcomes by outcome and storage class
	decisionsTotal *prometheus.CounterVec
	// storeDuration tracks object store latency by operation and result
	storeDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Presign decisions by outcome and storage class",
			},
			[]string{"outcome", "storage_class"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_request_duration_seconds",
				Help:      "Object store call latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "result"},
		),
	}

	reg.MustRegister(m.decisionsTotal, m.storeDuration)
	return m
}

// ObserveDecision counts one pipeline outcome
func (m *Metrics) ObserveDecision(outcome, storageClass string) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(outcome, storageClass).Inc()
}

// ObserveStoreCall records the latency of a single store operation
func (m *Metrics) ObserveStoreCall(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeDuration.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}
