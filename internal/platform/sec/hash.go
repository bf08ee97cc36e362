// Copyright (c) 2026 AfterMe. All rights reserved.

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the fixed bcrypt work factor for interactive login.
// Raising it slows every signup and login, so it is a process-wide constant
// rather than a per-call option.
const PasswordHashCost = 10

// HashPassword hashes a plain-text password using the bcrypt algorithm.
// Every call salts freshly, so hashing the same password twice yields
// different digests.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version
// in constant time. A malformed digest yields false, never an error.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
