// Copyright (c) 2026 AfterMe. All rights reserved.

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the auth package's TokenIssuer interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Verification Failure Kinds
//
// Verify classifies every failure into exactly one of these sentinels. The
// HTTP boundary may collapse them into similar client messages, but they stay
// distinguishable internally for logging and tests.
var (
	// ErrTokenMalformed means the string is not structurally a JWT.
	ErrTokenMalformed = errors.New("sec: token is malformed")

	// ErrTokenSignature means the token was tampered with or signed by a different key.
	ErrTokenSignature = errors.New("sec: token signature is invalid")

	// ErrTokenExpired means the token was valid but its expiry has passed.
	ErrTokenExpired = errors.New("sec: token is expired")
)

// SessionClaims is the payload embedded inside a session token.
//
// The token itself is the only record of the session: nothing is persisted
// server-side, and the email is a snapshot taken at issue time.
type SessionClaims struct {
	jwt.RegisteredClaims

	// UserID is the account identifier the token was issued for.
	UserID string `json:"id"`
	// Email is the account email at the moment the token was issued.
	Email string `json:"email"`
}

// TokenService issues and verifies HS256-signed session tokens.
//
// The signing secret is process-wide configuration supplied once at startup
// and never regenerated at runtime.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a TokenService around the given HMAC secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: token secret must not be empty")
	}
	return &TokenService{secret: []byte(secret), issuer: issuer}, nil
}

// Issue creates a signed session token for the given account, valid for ttl.
func (service *TokenService) Issue(userID, email string, ttl time.Duration) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(ttl)),
		},
		UserID: userID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a session token string.
//
// Failures are classified into [ErrTokenMalformed], [ErrTokenSignature], or
// [ErrTokenExpired]; any other parser failure is treated as malformed.
func (service *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
