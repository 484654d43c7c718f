package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Total number of credential checks by outcome",
		},
		[]string{"outcome"},
	)

	AccessTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_tokens_issued_total",
			Help:      "Total number of access tokens issued",
		},
	)

	JWTValidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jwt_validations_total",
			Help:      "Total number of JWT validations",
		},
	)

	JWTValidationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jwt_validations_failed_total",
			Help:      "Total number of failed JWT validations",
		},
	)

	TokensRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_tokens_revoked_total",
			Help:      "Total number of access tokens revoked by sign-out",
		},
	)

	RevokedTokensCleanupDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revoked_tokens_cleanup_deleted_total",
			Help:      "Total number of expired revocations purged by cleanup",
		},
	)
)
