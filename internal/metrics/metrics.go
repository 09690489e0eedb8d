// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "groupledger"

// Metrics groups the collectors shared by the interceptors and services.
type Metrics struct {
	// RPCRequests counts finished RPCs by procedure and Connect code.
	RPCRequests *prometheus.CounterVec

	// RPCDuration observes RPC latency by procedure.
	RPCDuration *prometheus.HistogramVec

	// ExpensesCreated counts persisted expenses by split type.
	ExpensesCreated *prometheus.CounterVec

	// ExpensesRejected counts expenses refused by validation, by reason.
	ExpensesRejected *prometheus.CounterVec

	// SettlementsRecorded counts repayments recorded between members.
	SettlementsRecorded prometheus.Counter

	// InstallmentsPaid counts installments marked paid.
	InstallmentsPaid prometheus.Counter
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Number of finished RPCs.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		ExpensesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_created_total",
			Help:      "Number of expenses recorded.",
		}, []string{"split_type"}),
		ExpensesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_rejected_total",
			Help:      "Number of expenses rejected by validation.",
		}, []string{"reason"}),
		SettlementsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_recorded_total",
			Help:      "Number of repayments recorded between members.",
		}),
		InstallmentsPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "installments_paid_total",
			Help:      "Number of installments marked paid.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.RPCRequests, m.RPCDuration, m.ExpensesCreated, m.ExpensesRejected, m.SettlementsRecorded, m.InstallmentsPaid)
	}
	return m
}
