// Package token signs and verifies the bearer tokens that carry a request's
// identity. A token encodes a user id and an absolute expiry, HMAC-signed
// with a process-wide secret; rotating the secret invalidates every
// outstanding token.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMissing   = errors.New("token: no token provided")
	ErrTokenMalformed = errors.New("token: malformed or tampered token")
	ErrTokenExpired   = errors.New("token: token expired")
)

// bearerPrefix is stripped, case-sensitively, when present. No other
// transformation is applied to the presented value.
const bearerPrefix = "Bearer "

// Principal is the verified identity attached to a request after a token
// passes verification. It is derived, never persisted.
type Principal struct {
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec signs and verifies bearer tokens. It is a pure function of its
// inputs and the secret it was constructed with.
type Codec struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewCodec(secret string, defaultTTL time.Duration) (*Codec, error) {
	if len(secret) < 16 {
		return nil, errors.New("token: secret must be at least 16 characters")
	}
	if defaultTTL <= 0 {
		return nil, errors.New("token: default ttl must be positive")
	}
	return &Codec{secret: []byte(secret), defaultTTL: defaultTTL}, nil
}

// DefaultTTL reports the ttl used by callers that issue tokens for normal
// authenticated use.
func (c *Codec) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Sign issues a token for principalID expiring after ttl.
func (c *Codec) Sign(principalID string, ttl time.Duration) (string, error) {
	if principalID == "" {
		return "", errors.New("token: empty principal id")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   principalID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: signing failed: %w", err)
	}
	return signed, nil
}

// Verify checks raw and returns the principal it encodes. raw may be the
// bare token or carry a single leading "Bearer " marker.
func (c *Codec) Verify(raw string) (*Principal, error) {
	if raw == "" {
		return nil, ErrTokenMissing
	}

	raw = strings.TrimPrefix(raw, bearerPrefix)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}

	p := &Principal{ID: claims.Subject}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}
