package service

import "github.com/prometheus/client_golang/prometheus"

var paymentEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "payment_reconciliations_total", Help: "Payment reconciliation attempts by trigger and outcome"},
	[]string{"source", "outcome"},
)

func init() { prometheus.MustRegister(paymentEvents) }

const (
	outcomeApplied   = "applied"
	outcomeDuplicate = "duplicate"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)
