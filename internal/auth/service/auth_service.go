package service

import (
	"context"
	"time"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/jwtverify"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	userdomain "github.com/AlibekovAA/invoice-dashboard/internal/user/domain"
)

type LoginResult struct {
	Identity    userdomain.Identity
	AccessToken string
	ExpiresAt   time.Time
}

type RevokedTokenStore interface {
	Revoke(ctx context.Context, jti string, userID string, expiresAt time.Time) error
}

// AuthService signs users in and out. Sign-in issues an access token for an
// authenticated identity; sign-out revokes that token's id.
type AuthService struct {
	authenticator *Authenticator
	tokens        *TokenIssuer
	revoked       RevokedTokenStore
	log           *logger.Logger
}

func NewAuthService(authenticator *Authenticator, tokens *TokenIssuer, revoked RevokedTokenStore, log *logger.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		tokens:        tokens,
		revoked:       revoked,
		log:           log,
	}
}

// Login returns ErrInvalidCredentials when nothing matched and
// ErrServiceUnavailable when the user store failed.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	identity, matched, err := s.authenticator.Authenticate(ctx, creds)
	if err != nil {
		return LoginResult{}, err
	}
	if !matched {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueAccessToken(identity)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(identity.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, ErrTokenIssueFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(identity.ID),
		"action":  "login_success",
	}).Info("login success")

	return LoginResult{
		Identity:    identity,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout revokes the token described by claims until its natural expiry.
// Tokens without an id cannot be revoked and are left to expire.
func (s *AuthService) Logout(ctx context.Context, claims jwtverify.Claims) error {
	if claims.JTI == "" {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": claims.UserID,
			"action":  "logout_without_jti",
		}).Warn("logout: token has no jti, nothing to revoke")
		return nil
	}

	if err := s.revoked.Revoke(ctx, claims.JTI, claims.UserID, claims.ExpiresAt); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": claims.UserID,
			"action":  "logout_revoke_failed",
		}).Errorf("logout failed: revoke error: %v", err)
		return ErrServiceUnavailable.WithCause(err)
	}

	incrementTokensRevoked()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": claims.UserID,
		"action":  "logout_success",
	}).Info("logout success")
	return nil
}
