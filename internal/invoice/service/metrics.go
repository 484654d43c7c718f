package service

import (
	"github.com/AlibekovAA/invoice-dashboard/internal/observability/metrics"
)

func incrementMutation(operation string, outcome Outcome) {
	metrics.InvoiceMutationsTotal.WithLabelValues(operation, string(outcome)).Inc()
}
