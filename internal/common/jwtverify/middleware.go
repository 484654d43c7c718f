package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/invoice-dashboard/internal/common/errors"
	commonhttp "github.com/AlibekovAA/invoice-dashboard/internal/common/http"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	"github.com/AlibekovAA/invoice-dashboard/internal/observability/metrics"
)

const (
	ClaimSubject = "sub"
	ClaimEmail   = "email"
	ClaimName    = "name"
	ClaimTokenID = "jti"
)

// Claims is the verified identity attached to a request.
type Claims struct {
	UserID    string
	Email     string
	Name      string
	JTI       string
	ExpiresAt time.Time
}

// RevocationChecker reports whether a token id was revoked by sign-out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

// Middleware rejects requests without a valid bearer token. When revoked is
// set, tokens whose jti was revoked are rejected too.
func Middleware(secret string, revoked RevocationChecker, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			traceID := commonhttp.TraceIDFromContext(ctx)

			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.WithFields(ctx, logger.Fields{
					"path":   r.URL.Path,
					"action": "jwt_missing",
				}).Warn("jwt auth failed: missing or invalid authorization header")
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing or invalid authorization", nil, traceID)
				return
			}

			metrics.JWTValidationsTotal.Inc()
			claims, err := ParseToken(strings.TrimPrefix(raw, "Bearer "), secretBytes)
			if err != nil {
				metrics.JWTValidationsFailed.Inc()
				log.WithFields(ctx, logger.Fields{
					"path":   r.URL.Path,
					"action": "jwt_invalid",
				}).Warnf("jwt auth failed: %v", err)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", nil, traceID)
				return
			}

			if revoked != nil && claims.JTI != "" {
				isRevoked, err := revoked.IsRevoked(ctx, claims.JTI)
				if err != nil {
					log.WithFields(ctx, logger.Fields{
						"path":    r.URL.Path,
						"user_id": claims.UserID,
						"action":  "jwt_revocation_check_failed",
					}).Errorf("jwt auth failed: revocation check error: %v", err)
					commonhttp.WriteErrorEnvelope(w, http.StatusServiceUnavailable, commonhttp.CodeServiceUnavailable, "Something went wrong.", nil, traceID)
					return
				}
				if isRevoked {
					metrics.JWTValidationsFailed.Inc()
					log.WithFields(ctx, logger.Fields{
						"path":    r.URL.Path,
						"user_id": claims.UserID,
						"action":  "jwt_revoked",
					}).Warn("jwt auth failed: token revoked")
					commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeTokenRevoked, "token revoked", nil, traceID)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

func ParseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidTokenSigningMethod
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, err
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, commonerrors.ErrInvalidTokenClaims
	}

	sub, _ := mapClaims[ClaimSubject].(string)
	email, _ := mapClaims[ClaimEmail].(string)
	name, _ := mapClaims[ClaimName].(string)
	jti, _ := mapClaims[ClaimTokenID].(string)
	if sub == "" || email == "" {
		return Claims{}, errors.Join(commonerrors.ErrMissingTokenClaims, errors.New("sub and email are required"))
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, errors.Join(commonerrors.ErrInvalidTokenClaims, err)
	}

	return Claims{
		UserID:    sub,
		Email:     email,
		Name:      name,
		JTI:       jti,
		ExpiresAt: exp.Time,
	}, nil
}
