package http

import (
	"net/http"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/httpmetrics"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
)

// BuildBaseHandler wraps handler with the middleware chain shared by every
// route: security headers, panic recovery, trace ids, body limits and
// request metrics (outermost first).
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	csp := ContentSecurityPolicyMiddleware("")

	return SecurityHeadersMiddleware(csp(recovery(TraceIDMiddleware(maxRequestSize(collector.Wrap(handler))))))
}
