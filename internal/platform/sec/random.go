// Copyright (c) 2026 AfterMe. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a hex-encoded random token built from length
// bytes of cryptographic entropy. Used for opaque one-time tokens such as
// password reset tokens; session tokens are signed JWTs instead.
func GenerateSecureToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read entropy: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}
