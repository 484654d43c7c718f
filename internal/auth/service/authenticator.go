package service

import (
	"context"
	"errors"

	commoncrypto "github.com/AlibekovAA/invoice-dashboard/internal/common/crypto"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/resilience"
	userdomain "github.com/AlibekovAA/invoice-dashboard/internal/user/domain"
	userrepo "github.com/AlibekovAA/invoice-dashboard/internal/user/repository"
)

// Authenticator resolves an email and password to an identity.
type Authenticator struct {
	users     userrepo.Repository
	hasher    commoncrypto.PasswordHasher
	validator *CredentialValidator
	breaker   *resilience.CircuitBreaker
	log       *logger.Logger
}

func NewAuthenticator(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	breaker *resilience.CircuitBreaker,
	log *logger.Logger,
) *Authenticator {
	return &Authenticator{
		users:     users,
		hasher:    hasher,
		validator: NewCredentialValidator(),
		breaker:   breaker,
		log:       log,
	}
}

// IsLookupFailure tells the circuit breaker which lookup errors count against
// the store. An unknown email is a normal answer.
func IsLookupFailure(err error) bool {
	return err != nil && !errors.Is(err, userrepo.ErrUserNotFound)
}

// Authenticate returns (identity, true, nil) on a match and (zero, false,
// nil) for malformed input, an unknown email or a wrong password. A store
// that cannot be consulted yields ErrServiceUnavailable instead.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (userdomain.Identity, bool, error) {
	if err := a.validator.Validate(creds); err != nil {
		a.rejected(ctx, creds.Email, outcomeInvalidShape)
		return userdomain.Identity{}, false, nil
	}

	var user userdomain.User
	err := a.breaker.Call(ctx, func(ctx context.Context) error {
		var findErr error
		user, findErr = a.users.FindByEmail(ctx, creds.Email)
		return findErr
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			a.rejected(ctx, creds.Email, outcomeUnknownUser)
			return userdomain.Identity{}, false, nil
		}
		incrementAuthAttempt(outcomeStoreUnavailable)
		a.log.WithFields(ctx, logger.Fields{
			"email":  creds.Email,
			"action": "auth_lookup_failed",
		}).Errorf("failed to fetch user: %v", err)
		return userdomain.Identity{}, false, ErrServiceUnavailable.WithCause(err)
	}

	if err := a.hasher.Compare(user.PasswordHash, creds.Password); err != nil {
		a.rejected(ctx, creds.Email, outcomePasswordMismatch)
		return userdomain.Identity{}, false, nil
	}

	incrementAuthAttempt(outcomeMatched)
	a.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "auth_success",
	}).Info("credentials accepted")

	return user.Identity(), true, nil
}

func (a *Authenticator) rejected(ctx context.Context, email, outcome string) {
	incrementAuthAttempt(outcome)
	a.log.WithFields(ctx, logger.Fields{
		"email":   email,
		"outcome": outcome,
		"action":  "auth_rejected",
	}).Warn("invalid credentials")
}
