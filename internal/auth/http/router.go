package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/AlibekovAA/invoice-dashboard/internal/auth/service"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/dto"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
	commonhttp "github.com/AlibekovAA/invoice-dashboard/internal/common/http"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/jwtverify"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/mapper"
)

const (
	fieldEmail    = "email"
	fieldPassword = "password"
)

type AuthService interface {
	Login(ctx context.Context, creds service.Credentials) (service.LoginResult, error)
	Logout(ctx context.Context, claims jwtverify.Claims) error
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      dto.Identity `json:"user"`
}

type Handler struct {
	auth   AuthService
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

// NewHandler serves sign-in and sign-out. The logout route expects to be
// mounted behind jwtverify.Middleware.
func NewHandler(auth AuthService, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:   auth,
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}
	post := commonhttp.RequireMethod(http.MethodPost)
	timeout := commonhttp.WithTimeout(requestTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc(constants.LoginPath, post(timeout(h.login)))
	mux.HandleFunc(constants.LogoutPath, post(timeout(h.logout)))
	return mux
}

// login accepts a JSON object or a form body with email and password.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	form, err := commonhttp.DecodeForm(r)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_decode_failed",
		}).Warnf("login failed: invalid body: %v", err)
		commonhttp.WriteDecodeError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), service.Credentials{
		Email:    form[fieldEmail],
		Password: form[fieldPassword],
	})
	if err != nil {
		if errors.Is(err, service.ErrServiceUnavailable) {
			w.Header().Set("Retry-After", "5")
		}
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		Token:     result.AccessToken,
		ExpiresAt: result.ExpiresAt,
		User:      mapper.IdentityToDTO(result.Identity),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing or invalid authorization", nil, commonhttp.TraceIDFromContext(r.Context()))
		return
	}

	if err := h.auth.Logout(r.Context(), claims); err != nil {
		if errors.Is(err, service.ErrServiceUnavailable) {
			w.Header().Set("Retry-After", "5")
		}
		h.errors.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
