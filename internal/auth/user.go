// Copyright (c) 2026 AfterMe. All rights reserved.

/*
Package auth implements the account identity and session layer of AfterMe.

It defines the core domain entity (User) and the logic for signup, login,
and bearer-session resolution.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
external dependencies and encapsulates the account's identity state. Sessions
are stateless: a signed token is the only record, nothing is persisted
server-side and nothing can be revoked before expiry.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered AfterMe account.
type User struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	PasswordDigest string `json:"-"` // Explicitly omitted from JSON for security.

	// ProfileCompletion is the onboarding progress percentage, seeded at
	// signup and advanced by profile features outside this service.
	ProfileCompletion int `json:"profileCompletion"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// # Response Views
//
// Each endpoint serializes a purpose-built view rather than the raw entity,
// so the wire shape of every response is fixed independently of entity
// changes. None of the views can ever carry the password digest.

// CreatedView is the account shape returned right after signup.
type CreatedView struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ProfileView is the account shape returned with a successful login.
type ProfileView struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	ProfileCompletion int    `json:"profileCompletion"`
}

// AccountView is the full non-sensitive account shape returned by the
// session endpoint.
type AccountView struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	ProfileCompletion int       `json:"profileCompletion"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Created returns the signup view of the user.
func (user *User) Created() CreatedView {
	return CreatedView{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}

// Profile returns the login view of the user.
func (user *User) Profile() ProfileView {
	return ProfileView{
		ID:                user.ID,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Email:             user.Email,
		ProfileCompletion: user.ProfileCompletion,
	}
}

// Account returns the session view of the user.
func (user *User) Account() AccountView {
	return AccountView{
		ID:                user.ID,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Email:             user.Email,
		ProfileCompletion: user.ProfileCompletion,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPassword  = "password"
)
