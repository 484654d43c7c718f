package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/invoice-dashboard/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Invalid credentials.",
	)

	// ErrServiceUnavailable means a backing store could not be consulted. It
	// is never reported as a credential mismatch.
	ErrServiceUnavailable = commonerrors.NewDomainError(
		"SERVICE_UNAVAILABLE",
		commonerrors.CategoryExternal,
		http.StatusServiceUnavailable,
		"Something went wrong.",
	)

	ErrTokenIssueFailed = commonerrors.NewDomainError(
		"TOKEN_ISSUE_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Something went wrong.",
	)
)
