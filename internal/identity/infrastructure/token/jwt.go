// Package token issues and verifies the bearer tokens that authenticate API callers.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned for any token that does not authenticate a user.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSecret is returned when the signer is built without a key.
	ErrMissingSecret = errors.New("token secret is required")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID uuid.UUID
}

type userClaim struct {
	ID string `json:"id"`
}

// claims keeps the payload shape {"user":{"id":...},"iat":...}.
type claims struct {
	jwt.RegisteredClaims
	User userClaim `json:"user"`
}

// JWT signs and verifies HS256 tokens with a shared secret.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWT creates a signer. A zero ttl issues tokens without an expiry.
func NewJWT(secret string, ttl time.Duration) (*JWT, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for userID.
func (j *JWT) Issue(userID uuid.UUID) (string, error) {
	now := j.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		User: userClaim{ID: userID.String()},
	}
	if j.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(j.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns the caller it names.
func (j *JWT) Verify(raw string) (Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Principal{}, ErrInvalidToken
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(parsed.User.ID)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: user id: %w", ErrInvalidToken, err)
	}
	return Principal{UserID: userID}, nil
}
