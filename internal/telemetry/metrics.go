package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts ledger operations by name and outcome.
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "budgetflow",
		Subsystem: "ledger",
		Name:      "operations_total",
		Help:      "Total ledger operations by operation name and outcome.",
	}, []string{"operation", "outcome"})

	// PaymentsExecutedAmount accumulates the value of executed payments.
	PaymentsExecutedAmount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "budgetflow",
		Subsystem: "ledger",
		Name:      "payments_executed_amount_total",
		Help:      "Cumulative amount debited by executed payments.",
	})

	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "budgetflow",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes HTTP request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "budgetflow",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// RecordOperation increments the operation counter with an outcome label
// derived from err and returns err unchanged, so call sites can wrap
// their return value.
func RecordOperation(operation string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	OperationsTotal.WithLabelValues(operation, outcome).Inc()
	return err
}
