// Copyright (c) 2026 AfterMe. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/afterme/afterme/internal/platform/apperr"
	"github.com/afterme/afterme/internal/platform/mail"
	"github.com/afterme/afterme/internal/platform/sec"
	"github.com/afterme/afterme/internal/platform/validate"
	"github.com/afterme/afterme/pkg/uuidv7"
)

// # Contracts & Types

// TokenIssuer defines the contract for issuing and verifying session tokens.
type TokenIssuer interface {
	// Issue creates a signed session token for the given account, valid for ttl.
	Issue(userID, email string, ttl time.Duration) (string, error)

	// Verify checks a session token string and returns its claims.
	//
	// Failures are classified into sec.ErrTokenMalformed, sec.ErrTokenSignature,
	// or sec.ErrTokenExpired so callers can distinguish the kinds.
	Verify(tokenString string) (*sec.SessionClaims, error)
}

// resetLinkFormat builds the link embedded in password reset emails.
// Only the reset initiation stub uses it.
const resetLinkFormat = "https://afterme.app/reset-password?token=%s"

// Service implements the account authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, signup,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	resetTokenRepository ResetTokenRepository
	tokenIssuer          TokenIssuer
	dispatcher           *mail.Dispatcher
	logger               *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
//
// resetRepo may be nil when no volatile store is configured; only the
// password reset stub needs it.
func NewService(
	userRepo UserRepository,
	resetRepo ResetTokenRepository,
	tokenIssuer TokenIssuer,
	dispatcher *mail.Dispatcher,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:       userRepo,
		resetTokenRepository: resetRepo,
		tokenIssuer:          tokenIssuer,
		dispatcher:           dispatcher,
		logger:               logger,
	}
}

// # Signup Flow

// SignupInput holds the data required to create a new account.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

/*
Signup validates, hashes, and persists a brand new user account.

Description: Normalizes the email (trim + lowercase), hashes the password,
and inserts the account. Uniqueness is settled by the storage layer
atomically with the insert; the FindByEmail pre-check only short-circuits
the common duplicate case before paying for a bcrypt hash.

A welcome email is dispatched on a detached goroutine after the account
exists. Its outcome is logged and never affects the returned result.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: Created entity
  - error: InvalidInput, Conflict (if the email is taken) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperr.InvalidInput("Email and password are required")
	}

	// The shape check runs on the raw input; a padded or whitespace-only
	// email is rejected, not forgiven. Normalization below is for lookup
	// and storage only.
	if !validate.IsEmail(input.Email) {
		return nil, apperr.InvalidInput("Please enter a valid email address")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Cheap duplicate short-circuit. Not authoritative: the unique index
	// decides under concurrency.
	if _, err := service.userRepository.FindByEmail(context, email); err == nil {
		return nil, apperr.Conflict("User already exists with this email")
	}

	// Prevent storing plain-text passwords. Fixed cost balances security
	// against CPU utilization during signup spikes.
	passwordDigest, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:                uuidv7.New(),
		FirstName:         strings.TrimSpace(input.FirstName),
		LastName:          strings.TrimSpace(input.LastName),
		Email:             email,
		PasswordDigest:    passwordDigest,
		ProfileCompletion: InitialProfileCompletion,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.Conflict("User already exists with this email")
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	// Welcome email is best-effort and detached; the outcome is only
	// observable through logs.
	go service.dispatchWelcome(user.Email, user.FirstName)

	return user, nil
}

// dispatchWelcome delivers the welcome email on a fresh root context, so
// delivery is not cancelled when the originating request completes.
func (service *Service) dispatchWelcome(email, firstName string) {
	service.dispatcher.SendWelcome(context.Background(), email, firstName)
}

// # Login Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established stateless session.
type LoginSession struct {
	Token string
	User  *User
}

/*
Login validates user credentials and issues a session token.

Description: Verifies identity with a constant-time password comparison and
issues a signed 7-day token. The token is the entire session; nothing is
persisted server-side.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Token plus the authenticated user
  - error: InvalidInput, InvalidCredentials or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperr.InvalidInput("Email and password are required")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		// Unknown email and wrong password must be indistinguishable to
		// the client, to prevent account enumeration.
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordDigest) {
		return nil, apperr.InvalidCredentials()
	}

	token, err := service.tokenIssuer.Issue(user.ID, user.Email, SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginSession{Token: token, User: user}, nil
}

// # Session Resolution

/*
Session resolves a bearer Authorization header into the current account.

Description: Parses the header, verifies the token signature and expiry, and
confirms the account still exists. Token-failure kinds stay attached as the
AppError cause while clients receive collapsed messages.

Parameters:
  - context: context.Context
  - authorizationHeader: string (raw header value, may be empty)

Returns:
  - *User: Hydrated current account
  - error: Unauthenticated, NotFound (account deleted) or storage errors
*/
func (service *Service) Session(context context.Context, authorizationHeader string) (*User, error) {
	if authorizationHeader == "" {
		return nil, apperr.Unauthenticated("No authorization token provided", nil)
	}

	// Scheme and token are space-separated ("Bearer <token>"). A header
	// carrying only the scheme has no usable token.
	parts := strings.Fields(authorizationHeader)
	if len(parts) < 2 {
		return nil, apperr.Unauthenticated("Token missing", nil)
	}
	tokenString := parts[1]

	claims, err := service.tokenIssuer.Verify(tokenString)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, apperr.Unauthenticated("Token expired", err)
		}
		// Malformed and bad-signature collapse to the same client message;
		// the cause keeps them distinguishable in logs.
		return nil, apperr.Unauthenticated("Invalid token", err)
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		// A valid token can outlive its account.
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("auth_service_session_lookup_failed: %w", err)
	}

	return user, nil
}

// # Password Recovery (stub)

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token, saves it to the volatile store with a
1 hour TTL, and dispatches a reset email best-effort. Not mounted on any
route yet; reset completion does not exist.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Generated reset token (empty for unknown emails)
  - err: Generation or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// NOTE: Unknown emails succeed with an empty token to prevent user enumeration.
	user, err := service.userRepository.FindByEmail(context, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	if service.resetTokenRepository == nil {
		return "", errors.New("auth_service_reset_token_store_not_configured")
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	service.dispatcher.SendPasswordReset(context, user.Email, fmt.Sprintf(resetLinkFormat, token))

	return token, nil
}
