package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/invoice-dashboard/internal/observability/metrics"
)

func extractTableFromOperation(operation string) string {
	operation = strings.ToLower(operation)
	switch {
	case strings.Contains(operation, "invoice"):
		return "invoices"
	case strings.Contains(operation, "customer"):
		return "customers"
	case strings.Contains(operation, "token"):
		return "revoked_tokens"
	case strings.Contains(operation, "user"):
		return "users"
	default:
		return "unknown"
	}
}

// HandleQueryError records the query duration and maps pgx.ErrNoRows to
// notFoundErr. Other errors are counted and wrapped with the operation name.
func HandleQueryError(err error, notFoundErr error, operation string, startTime time.Time) error {
	MeasureQueryDuration(operation, startTime)

	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}
	recordQueryError(operation, err)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func HandleExecError(err error, operation string, startTime time.Time) error {
	MeasureQueryDuration(operation, startTime)

	if err == nil {
		return nil
	}
	recordQueryError(operation, err)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func MeasureQueryDuration(operation string, startTime time.Time) {
	table := extractTableFromOperation(operation)
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())
}

func recordQueryError(operation string, err error) {
	table := extractTableFromOperation(operation)
	metrics.DBQueryErrors.WithLabelValues(operation, table, fmt.Sprintf("%T", err)).Inc()
}
