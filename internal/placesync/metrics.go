package placesync

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opLoadAll      = "load_all"
	opRegister     = "register"
	opRegisterCity = "register_city"
	opDelete       = "delete"

	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeNoMatch  = "no_match"
	outcomeError    = "error"
)

// Metrics counts sync operations by outcome and times them.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "places",
			Name:      "sync_operations_total",
			Help:      "The total number of sync operations by outcome",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "places",
			Name:      "sync_operation_duration_seconds",
			Help:      "The duration of sync operations, remote calls included",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.operations, m.duration)
	return m
}

func (m *Metrics) observe(op, outcome string, d time.Duration) {
	m.operations.With(prometheus.Labels{"operation": op, "outcome": outcome}).Inc()
	m.duration.With(prometheus.Labels{"operation": op}).Observe(d.Seconds())
}
