package http

const (
	CodeUnknown              = "UNKNOWN"
	CodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	CodeInvalidForm          = "INVALID_FORM"
	CodeInvalidPath          = "INVALID_PATH"
	CodeRequestTooLarge      = "REQUEST_TOO_LARGE"
	CodeRateLimited          = "RATE_LIMITED"
	CodeMissingAuthorization = "MISSING_AUTHORIZATION"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeTokenRevoked         = "TOKEN_REVOKED"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
)
