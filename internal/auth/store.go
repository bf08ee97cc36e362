// Copyright (c) 2026 AfterMe. All rights reserved.

package auth

import (
	"context"
	"errors"
	"time"
)

// # Storage Sentinels

var (
	// ErrDuplicateEmail is returned by [UserRepository.Create] when another
	// account already holds the same email under case-insensitive comparison.
	// The storage layer guarantees this atomically with the insert itself.
	ErrDuplicateEmail = errors.New("auth: email already registered")

	// ErrNotFound is returned by lookups when no matching account exists.
	ErrNotFound = errors.New("auth: user not found")
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Implementations enforce the case-insensitive email uniqueness invariant
// themselves; callers may pre-check for convenience but must never rely on a
// read-then-write sequence for correctness.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: ErrNotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email, compared
		case-insensitively.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: ErrNotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		Description: The uniqueness check is atomic with the insert. Under N
		concurrent creates with the same normalized email exactly one
		succeeds; the rest observe ErrDuplicateEmail.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: ErrDuplicateEmail or persistence failures
	*/
	Create(context context.Context, user *User) error
}

// # Volatile Data Access

// ResetTokenRepository defines the contract for storing volatile password
// reset tokens. Only the reset initiation stub uses it.
type ResetTokenRepository interface {

	/*
		Set stores a reset token associated with a userID for a limited duration.

		Parameters:
		  - context: context.Context
		  - token: string
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a given reset token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: UserID
		  - error: ErrNotFound or retrieval failures
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a reset token after successful use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
