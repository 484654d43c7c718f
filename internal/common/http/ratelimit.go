package http

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
	"github.com/AlibekovAA/invoice-dashboard/internal/observability/metrics"
)

type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	cleanup  *time.Ticker
	done     chan struct{}
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		cleanup:  time.NewTicker(constants.RateLimitCleanupInterval),
		done:     make(chan struct{}),
	}

	go rl.cleanupLimiters()

	return rl
}

// cleanupLimiters drops limiters whose bucket has refilled, i.e. clients that
// have gone quiet.
func (rl *RateLimiter) cleanupLimiters() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanup.C:
			rl.mu.Lock()
			for key, limiter := range rl.limiters {
				if limiter.Tokens() >= float64(rl.burst) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.cleanup.Stop()
	close(rl.done)
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// PathRateLimiter applies a strict budget to the login endpoint and a
// general one elsewhere. Health and metrics endpoints are never limited.
type PathRateLimiter struct {
	loginLimiter   *RateLimiter
	generalLimiter *RateLimiter
}

func NewPathRateLimiter() *PathRateLimiter {
	return &PathRateLimiter{
		loginLimiter:   NewRateLimiter(constants.RateLimitLoginRequestsPerSecond, constants.RateLimitLoginBurst),
		generalLimiter: NewRateLimiter(constants.RateLimitGeneralRequestsPerSecond, constants.RateLimitGeneralBurst),
	}
}

func (p *PathRateLimiter) Stop() {
	p.loginLimiter.Stop()
	p.generalLimiter.Stop()
}

func (p *PathRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == constants.HealthPath || path == constants.MetricsPath {
			next.ServeHTTP(w, r)
			return
		}

		limiter, limiterType := p.generalLimiter, "general"
		if path == constants.LoginPath {
			limiter, limiterType = p.loginLimiter, "login"
		}

		if !limiter.Allow(GetClientIP(r)) {
			metrics.RateLimitBlocked.WithLabelValues(limiterType).Inc()
			WriteErrorEnvelope(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded", nil, TraceIDFromContext(r.Context()))
			return
		}

		next.ServeHTTP(w, r)
	})
}
