// Package telemetry wires the ambient observability of the ATM backend:
// Prometheus metrics, OpenTelemetry tracing and the slog logger.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics groups the collectors the service updates. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Operations    *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	Penalties     *prometheus.CounterVec
	QueueDepth    prometheus.Gauge
	Customers     prometheus.Gauge
	PoolRemaining prometheus.Gauge
}

// NewMetrics registers the ATM collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atm",
			Subsystem: "service",
			Name:      "operations_total",
			Help:      "Total ATM operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "atm",
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "ATM operation latency in seconds.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"op"}),
		Penalties: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atm",
			Subsystem: "engine",
			Name:      "penalties_total",
			Help:      "Service charges applied by account type.",
		}, []string{"account"}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "atm",
			Subsystem: "gate",
			Name:      "queue_depth",
			Help:      "Current number of sessions waiting at the gate.",
		}),
		Customers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "atm",
			Subsystem: "ledger",
			Name:      "customers",
			Help:      "Number of registered customers.",
		}),
		PoolRemaining: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "atm",
			Subsystem: "credentials",
			Name:      "remaining",
			Help:      "Default credential pairs not yet issued.",
		}),
	}
}

// Observe records one finished operation.
func (m *Metrics) Observe(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.Duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// Penalty counts a service charge on account.
func (m *Metrics) Penalty(account string) {
	if m == nil {
		return
	}
	m.Penalties.WithLabelValues(account).Inc()
}

// SetQueueDepth publishes the gate length.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

// SetCustomers publishes the ledger size.
func (m *Metrics) SetCustomers(n int) {
	if m == nil {
		return
	}
	m.Customers.Set(float64(n))
}

// SetPoolRemaining publishes the unissued credential count.
func (m *Metrics) SetPoolRemaining(n int) {
	if m == nil {
		return
	}
	m.PoolRemaining.Set(float64(n))
}
