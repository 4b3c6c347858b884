// Package session mints and verifies the signed, self-contained tokens
// that represent a logged-in user. Only the gateway verifies them, so a
// single symmetric secret is sufficient.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authgate/internal/identity"
)

// ErrInvalidSession is returned by Verify for any token that fails
// signature, structure, or expiry checks.
var ErrInvalidSession = errors.New("invalid session token")

// Claims carries the session payload inside the JWT.
type Claims struct {
	UserID   string `json:"uid"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with an HS256 secret.
type Issuer struct {
	signingKey []byte
	ttl        time.Duration
}

// NewIssuer creates an Issuer. The secret is injected here and nowhere
// else, so rotation is a single configuration change.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{signingKey: []byte(secret), ttl: ttl}
}

// Issue builds and signs a session token for the user.
func (i *Issuer) Issue(user identity.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		Provider: user.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})

	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// TTL returns the configured session lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Verify checks the signature and expiry and returns the decoded
// claims. Any failure maps to ErrInvalidSession.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
