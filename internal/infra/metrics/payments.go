package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func init() {
	register(
		checkoutSessionsTotal,
		creditingRequests,
		creditingDuration,
	)
}

var (
	checkoutSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Checkout session creations by gateway and result (ok/invalid_plan/create_failed).",
		},
		[]string{"gateway", "result"},
	)

	// Count of crediting attempts grouped by result and bounded reason.
	// result: ok|fail|skip
	// reason: ledger_error (fail), invalid_callback (skip)
	creditingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coin_crediting_requests_total",
			Help: "Count of coin crediting attempts by result and reason.",
		},
		[]string{"result", "reason"},
	)

	creditingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coin_crediting_duration_seconds",
			Help:    "Duration of the ledger crediting call in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)
)

func IncCheckoutSession(gateway, result string) {
	checkoutSessionsTotal.WithLabelValues(norm(gateway), norm(result)).Inc()
}

func IncCrediting(result, reason string) {
	creditingRequests.WithLabelValues(norm(result), norm(reason)).Inc()
}

func ObserveCreditingDuration(result string, seconds float64) {
	creditingDuration.WithLabelValues(norm(result)).Observe(seconds)
}

// CreditingCount reads back the crediting counter for the given labels.
// Counters are process-global, so tests comparing values should take a
// before/after delta.
func CreditingCount(result, reason string) float64 {
	c, err := creditingRequests.GetMetricWithLabelValues(norm(result), norm(reason))
	if err != nil {
		return 0
	}
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
