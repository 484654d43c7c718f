package http

import (
	"net/http"
	"runtime/debug"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					ctx := r.Context()
					log.WithFields(ctx, logger.Fields{
						"path":   r.URL.Path,
						"method": r.Method,
						"action": "panic_recovered",
					}).Criticalf("panic recovered: %v\n%s", err, debug.Stack())
					WriteErrorEnvelope(w, http.StatusInternalServerError, CodeUnknown, "internal server error", nil, TraceIDFromContext(ctx))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
