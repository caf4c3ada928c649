// Package auth issues and checks the session tokens of the portfolio owner.
//
// SESSION FLOW:
//  1. The owner signs in, either through GitHub (/auth/github/login) or with
//     the configured email and password (POST /auth/login)
//  2. The server upserts a users row and issues a signed JWT
//  3. The JWT travels in the "token" HttpOnly cookie (or an Authorization
//     bearer header for the admin tooling)
//  4. OptionalAuth turns it back into a user ID; handlers use that ID to pick
//     the per-user content scope
//
// The token only carries the user ID ("sub") and an expiry. No server-side
// session table is needed; the HMAC signature is the proof.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "portfolio"

	// SessionTTL is how long a signed-in session lasts before the owner has
	// to sign in again.
	SessionTTL = 7 * 24 * time.Hour
)

// TokenService signs and verifies session tokens with one HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. The secret must be at least 16
// characters; generate one with `openssl rand -hex 32`.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), ttl: SessionTTL}, nil
}

// Generate issues a session token for userID that expires after SessionTTL.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration issues a token with a custom lifetime. A negative d
// produces an already-expired token, which the tests rely on.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		Issuer:    issuer,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies tokenStr and returns the user ID in its subject.
//
// jwt.WithValidMethods pins HS256 so a token claiming "alg":"none" (or an
// RSA key confusion) is rejected before the signature is even looked at.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	var c jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.New("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}

	return c.Subject, nil
}
