package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlibekovAA/invoice-dashboard/internal/auth/cleanup"
	authhttp "github.com/AlibekovAA/invoice-dashboard/internal/auth/http"
	authrepo "github.com/AlibekovAA/invoice-dashboard/internal/auth/repository"
	authservice "github.com/AlibekovAA/invoice-dashboard/internal/auth/service"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/clock"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/config"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/invoice-dashboard/internal/common/crypto"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/db"
	commonhttp "github.com/AlibekovAA/invoice-dashboard/internal/common/http"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/jwtverify"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/resilience"
	customerrepo "github.com/AlibekovAA/invoice-dashboard/internal/customer/repository"
	invoicehttp "github.com/AlibekovAA/invoice-dashboard/internal/invoice/http"
	invoicerepo "github.com/AlibekovAA/invoice-dashboard/internal/invoice/repository"
	invoiceservice "github.com/AlibekovAA/invoice-dashboard/internal/invoice/service"
	"github.com/AlibekovAA/invoice-dashboard/internal/invoice/viewcache"
	userrepo "github.com/AlibekovAA/invoice-dashboard/internal/user/repository"
)

// App owns every long-lived resource of a running dashboard.
type App struct {
	Log         *logger.Logger
	Config      config.DashboardConfig
	Pool        *pgxpool.Pool
	Cache       *viewcache.Cache
	RateLimiter *commonhttp.PathRateLimiter
	Handler     http.Handler
}

// NewApp connects to the database, optionally migrates it and assembles the
// HTTP handler. Background loops stop when ctx is done.
func NewApp(ctx context.Context, cfg config.DashboardConfig, log *logger.Logger) (*App, error) {
	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, log, cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)

	realClock := clock.NewRealClock()
	idGenerator := commoncrypto.NewUUIDGenerator()

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  cfg.CircuitBreakerThreshold,
		Timeout:    cfg.CircuitBreakerTimeout,
		ResetAfter: cfg.CircuitBreakerReset,
		Name:       "user_lookup",
		IsFailure:  authservice.IsLookupFailure,
		Clock:      realClock,
		Logger:     log,
	})

	authenticator := authservice.NewAuthenticator(
		userrepo.NewPgRepository(pool),
		commoncrypto.NewBcryptHasher(0),
		breaker,
		log,
	)
	tokens := authservice.NewTokenIssuer(cfg.JWTSecret, idGenerator, cfg.AccessTokenTTL, realClock)
	revokedTokens := authrepo.NewPgRevokedTokenRepository(pool)
	authService := authservice.NewAuthService(authenticator, tokens, revokedTokens, log)
	go cleanup.StartRevokedTokenCleanup(ctx, revokedTokens, constants.RevokedTokenCleanupInterval, log)

	invoiceService := invoiceservice.NewInvoiceService(
		invoicerepo.NewPgRepository(pool),
		customerrepo.NewPgRepository(pool),
		idGenerator,
		realClock,
		log,
	)

	cache := viewcache.New(ctx, cfg.ViewCacheTTL, realClock, log)
	rateLimiter := commonhttp.NewPathRateLimiter()

	router := NewRouter(RouterDeps{
		Auth:           authService,
		Invoices:       invoiceService,
		Cache:          cache,
		Revocations:    revokedTokens,
		JWTSecret:      cfg.JWTSecret,
		RequestTimeout: cfg.RequestTimeout,
		Log:            log,
	})

	return &App{
		Log:         log,
		Config:      cfg,
		Pool:        pool,
		Cache:       cache,
		RateLimiter: rateLimiter,
		Handler:     rateLimiter.Middleware(router),
	}, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	a.RateLimiter.Stop()
	a.Cache.Close()
	a.Pool.Close()
}

type RouterDeps struct {
	Auth           authhttp.AuthService
	Invoices       invoicehttp.InvoiceService
	Cache          invoicehttp.ViewCache
	Revocations    jwtverify.RevocationChecker
	JWTSecret      string
	RequestTimeout time.Duration
	Log            *logger.Logger
}

// NewRouter mounts every route behind the shared middleware chain. Logout,
// invoice and customer routes require a verified, unrevoked token.
func NewRouter(deps RouterDeps) http.Handler {
	authHandler := authhttp.NewHandler(deps.Auth, deps.RequestTimeout, deps.Log)
	requireAuth := jwtverify.Middleware(deps.JWTSecret, deps.Revocations, deps.Log)
	invoiceHandler := requireAuth(invoicehttp.NewHandler(deps.Invoices, deps.Cache, deps.RequestTimeout, deps.Log))

	mux := http.NewServeMux()
	mux.HandleFunc(constants.HealthPath, commonhttp.HealthHandler(deps.Log))
	mux.Handle(constants.MetricsPath, promhttp.Handler())
	mux.Handle(constants.LoginPath, authHandler)
	mux.Handle(constants.LogoutPath, requireAuth(authHandler))
	mux.Handle("/api/invoices", invoiceHandler)
	mux.Handle("/api/invoices/", invoiceHandler)
	mux.Handle("/api/customers", invoiceHandler)

	return commonhttp.BuildBaseHandler(deps.Log, mux)
}
