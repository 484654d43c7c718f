package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/invoice-dashboard/internal/common/crypto"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/jwtverify"
	userdomain "github.com/AlibekovAA/invoice-dashboard/internal/user/domain"
)

type TokenIssuer struct {
	jwtSecret      []byte
	idGenerator    commoncrypto.IDGenerator
	clock          clock.Clock
	accessTokenTTL time.Duration
}

func NewTokenIssuer(
	jwtSecret string,
	idGenerator commoncrypto.IDGenerator,
	accessTokenTTL time.Duration,
	clock clock.Clock,
) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret:      []byte(jwtSecret),
		idGenerator:    idGenerator,
		clock:          clock,
		accessTokenTTL: accessTokenTTL,
	}
}

// IssueAccessToken signs an HS256 token for identity and returns it with its
// expiry.
func (ti *TokenIssuer) IssueAccessToken(identity userdomain.Identity) (string, time.Time, error) {
	jti, err := ti.idGenerator.NewID()
	if err != nil {
		return "", time.Time{}, err
	}

	now := ti.clock.Now()
	expiresAt := now.Add(ti.accessTokenTTL)
	claims := jwt.MapClaims{
		jwtverify.ClaimSubject: string(identity.ID),
		jwtverify.ClaimEmail:   identity.Email,
		jwtverify.ClaimName:    identity.Name,
		jwtverify.ClaimTokenID: jti,
		"exp":                  expiresAt.Unix(),
		"iat":                  now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	incrementAccessTokensIssued()
	return tokenString, expiresAt, nil
}

func (ti *TokenIssuer) ParseToken(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret)
}
