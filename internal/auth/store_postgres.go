// Copyright (c) 2026 AfterMe. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/afterme/afterme/internal/platform/dberr"
)

// # User Repository
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are classified via
// internal/platform/dberr and mapped to the domain sentinels, so no storage
// detail leaks past this file.

// PostgresUserRepository implements the [UserRepository] interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the account table.

Description: Relies on the unique index over lower(email) for the uniqueness
invariant. The constraint fires atomically with the insert, which is what
resolves concurrent duplicate signups to exactly one winner.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: ErrDuplicateEmail, or connectivity and constraint errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO account (
			id, first_name, last_name, email, password_digest, profile_completion, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordDigest,
		user.ProfileCompletion,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves a user record by email address.

Description: Compares on lower(email) so the lookup matches the storage
uniqueness rule regardless of the stored or queried casing.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, first_name, last_name, email, password_digest, profile_completion, created_at, updated_at
		FROM account
		WHERE lower(email) = lower($1)`

	user := &User{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordDigest,
		&user.ProfileCompletion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution, used by the session endpoint to confirm
the token's account still exists.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: ErrNotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, first_name, last_name, email, password_digest, profile_completion, created_at, updated_at
		FROM account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordDigest,
		&user.ProfileCompletion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}
