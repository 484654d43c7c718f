package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	userdomain "github.com/AlibekovAA/invoice-dashboard/internal/user/domain"
)

type mockUserRepo struct {
	FindByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)

	calls atomic.Int32
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	m.calls.Add(1)
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return userdomain.User{}, errors.New("not configured")
}

type mockHasher struct {
	CompareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.CompareFunc != nil {
		return m.CompareFunc(hash, password)
	}
	if hash == "hashed:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type mockIDGenerator struct {
	NewIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.NewIDFunc != nil {
		return m.NewIDFunc()
	}
	return "jti-1", nil
}

type revocation struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
}

type mockRevokedTokenRepo struct {
	RevokeFunc func(ctx context.Context, jti string, userID string, expiresAt time.Time) error

	revoked []revocation
}

func (m *mockRevokedTokenRepo) Revoke(ctx context.Context, jti string, userID string, expiresAt time.Time) error {
	if m.RevokeFunc != nil {
		if err := m.RevokeFunc(ctx, jti, userID, expiresAt); err != nil {
			return err
		}
	}
	m.revoked = append(m.revoked, revocation{JTI: jti, UserID: userID, ExpiresAt: expiresAt})
	return nil
}
