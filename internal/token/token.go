// Package token issues and verifies the signed bearer tokens that carry
// the admin identity between the browser and the API.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the bearer token lifetime used when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrSecretMissing is returned when no signing secret is configured.
	// This is a process configuration fault, not a per-request one.
	ErrSecretMissing = errors.New("jwt signing secret is not configured")
	// ErrTokenExpired is returned when the token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned when the signature or structure of the
	// token does not check out.
	ErrTokenInvalid = errors.New("invalid token")
)

// Principal is the authenticated identity carried inside a verified token.
type Principal struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Claims is the JWT payload: the principal plus registered claims.
type Claims struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Issue creates a signed HS256 token for the principal, expiring after ttl.
// A zero ttl falls back to DefaultTTL.
func Issue(principal Principal, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrSecretMissing
	}

	if ttl == 0 {
		ttl = DefaultTTL
	}

	claims := &Claims{
		ID:    principal.ID,
		Email: principal.Email,
		Name:  principal.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify checks signature and expiry of a token string and returns the
// embedded principal. Expired and malformed tokens are distinguished in
// the returned error kind.
func Verify(tokenString, secret string) (*Principal, error) {
	if secret == "" {
		return nil, ErrSecretMissing
	}

	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	return &Principal{
		ID:    claims.ID,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
