// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "admin"
	issuer    = "carshow"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWT signs and verifies admin session tokens with HS256
type JWT struct {
	Secret   []byte
	TokenTTL time.Duration
	now      func() time.Time
}

func NewJWT(secret string, ttl time.Duration) JWT {
	return JWT{Secret: []byte(secret), TokenTTL: ttl}
}

func (j JWT) clock() time.Time {
	if j.now != nil {
		return j.now()
	}
	return time.Now()
}

// Sign issues a token for role that expires after TokenTTL
func (j JWT) Sign(role string) (token string, expiresAt time.Time, err error) {
	now := j.clock().UTC()
	expiresAt = now.Add(j.TokenTTL)

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   role,
			ID:        GenerateID(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return s, expiresAt, nil
}

// Verify checks signature, issuer and expiry
func (j JWT) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return j.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.clock),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return *c, nil
}
