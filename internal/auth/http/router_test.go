package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/invoice-dashboard/internal/auth/service"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/jwtverify"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	userdomain "github.com/AlibekovAA/invoice-dashboard/internal/user/domain"
)

type mockAuthService struct {
	LoginFunc  func(ctx context.Context, creds service.Credentials) (service.LoginResult, error)
	LogoutFunc func(ctx context.Context, claims jwtverify.Claims) error
}

func (m *mockAuthService) Login(ctx context.Context, creds service.Credentials) (service.LoginResult, error) {
	return m.LoginFunc(ctx, creds)
}

func (m *mockAuthService) Logout(ctx context.Context, claims jwtverify.Claims) error {
	return m.LogoutFunc(ctx, claims)
}

func newTestHandler(auth AuthService) http.Handler {
	return NewHandler(auth, time.Second, logger.NewWithWriter(io.Discard, "test", "error"))
}

func TestLogin_JSON(t *testing.T) {
	var got service.Credentials
	expires := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	h := newTestHandler(&mockAuthService{LoginFunc: func(ctx context.Context, creds service.Credentials) (service.LoginResult, error) {
		got = creds
		return service.LoginResult{
			Identity:    userdomain.Identity{ID: "u1", Name: "User", Email: creds.Email},
			AccessToken: "token",
			ExpiresAt:   expires,
		}, nil
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"user@nextmail.com","password":"123456"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.Credentials{Email: "user@nextmail.com", Password: "123456"}, got)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "token", body["token"])
	assert.Equal(t, "2024-01-01T12:30:00Z", body["expires_at"])
	assert.Equal(t, map[string]any{"id": "u1", "name": "User", "email": "user@nextmail.com"}, body["user"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLogin_FormEncoded(t *testing.T) {
	var got service.Credentials
	h := newTestHandler(&mockAuthService{LoginFunc: func(ctx context.Context, creds service.Credentials) (service.LoginResult, error) {
		got = creds
		return service.LoginResult{AccessToken: "token"}, nil
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("email=user%40nextmail.com&password=123456"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user@nextmail.com", got.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h := newTestHandler(&mockAuthService{LoginFunc: func(ctx context.Context, creds service.Credentials) (service.LoginResult, error) {
		return service.LoginResult{}, service.ErrInvalidCredentials
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.com","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials.")
}

func TestLogin_ServiceUnavailable(t *testing.T) {
	h := newTestHandler(&mockAuthService{LoginFunc: func(ctx context.Context, creds service.Credentials) (service.LoginResult, error) {
		return service.LoginResult{}, service.ErrServiceUnavailable.WithCause(errors.New("dial tcp: refused"))
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.com","password":"123456"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Something went wrong.")
	assert.NotContains(t, rec.Body.String(), "refused")
}

func TestLogin_BadBody(t *testing.T) {
	h := newTestHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(&mockAuthService{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func logoutRequest(claims *jwtverify.Claims) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	if claims != nil {
		req = req.WithContext(jwtverify.WithClaims(req.Context(), *claims))
	}
	return req
}

func TestLogout_RevokesCurrentToken(t *testing.T) {
	var got jwtverify.Claims
	h := newTestHandler(&mockAuthService{LogoutFunc: func(ctx context.Context, claims jwtverify.Claims) error {
		got = claims
		return nil
	}})

	claims := jwtverify.Claims{UserID: "u1", Email: "user@nextmail.com", JTI: "jti-1"}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, logoutRequest(&claims))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, claims, got)
}

func TestLogout_WithoutVerifiedToken(t *testing.T) {
	h := newTestHandler(&mockAuthService{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, logoutRequest(nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_AUTHORIZATION")
}

func TestLogout_StoreUnavailable(t *testing.T) {
	h := newTestHandler(&mockAuthService{LogoutFunc: func(ctx context.Context, claims jwtverify.Claims) error {
		return service.ErrServiceUnavailable.WithCause(errors.New("connection refused"))
	}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, logoutRequest(&jwtverify.Claims{UserID: "u1", JTI: "jti-1"}))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))
}

func TestLogout_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(&mockAuthService{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
