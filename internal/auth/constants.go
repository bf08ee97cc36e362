// Copyright (c) 2026 AfterMe. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// SessionTokenTTL is the duration a session token remains valid.
	// Sessions are stateless, so expiry is the only way a token dies;
	// seven days balances convenience against the lack of revocation.
	SessionTokenTTL = 7 * 24 * time.Hour

	// InitialProfileCompletion is the onboarding percentage granted for
	// completing signup itself.
	InitialProfileCompletion = 10

	// MaxNameLength bounds first and last names at signup.
	MaxNameLength = 100

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32
)
