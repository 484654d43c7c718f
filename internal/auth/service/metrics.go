package service

import (
	"github.com/AlibekovAA/invoice-dashboard/internal/observability/metrics"
)

const (
	outcomeMatched          = "matched"
	outcomeInvalidShape     = "invalid_shape"
	outcomeUnknownUser      = "unknown_user"
	outcomePasswordMismatch = "password_mismatch"
	outcomeStoreUnavailable = "store_unavailable"
)

func incrementAuthAttempt(outcome string) {
	metrics.AuthAttemptsTotal.WithLabelValues(outcome).Inc()
}

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func incrementTokensRevoked() {
	metrics.TokensRevoked.Inc()
}
