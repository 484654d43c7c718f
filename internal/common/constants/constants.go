package constants

import "time"

const (
	PasswordMinLength  = 6
	PasswordMaxBytes   = 72
	JWTSecretMinLength = 32

	DefaultMaxRequestSize = 1 << 20
	InvoicesPerPage       = 6

	ViewCacheCleanupInterval    = 30 * time.Second
	RevokedTokenCleanupInterval = time.Hour

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultDashboardHTTPPort = "8080"

	DefaultCircuitBreakerThreshold = 5
	DefaultCircuitBreakerTimeout   = 5 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	DefaultRequestTimeout = 5 * time.Second
	DefaultAccessTokenTTL = 30 * time.Minute
	DefaultViewCacheTTL   = 1 * time.Minute

	RateLimitCleanupInterval          = 5 * time.Minute
	RateLimitLoginRequestsPerSecond   = 0.5
	RateLimitLoginBurst               = 5
	RateLimitGeneralRequestsPerSecond = 20
	RateLimitGeneralBurst             = 40

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

const (
	InvoicesPath   = "/dashboard/invoices"
	LoginPath      = "/api/auth/login"
	LogoutPath     = "/api/auth/logout"
	HealthPath     = "/health"
	MetricsPath    = "/metrics"
	ApplicationTag = "invoice-dashboard"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
