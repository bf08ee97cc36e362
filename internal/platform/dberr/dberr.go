// Copyright (c) 2026 AfterMe. All rights reserved.

// Package dberr classifies low-level PostgreSQL errors so that repositories
// can translate them into domain conditions without string matching.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsNoRows reports whether err means the queried row does not exist.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
//
// Repositories use this to turn a constraint hit into a distinct domain
// condition. The constraint check is atomic with the insert, which is what
// makes concurrent duplicate signups resolve to exactly one winner.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}
