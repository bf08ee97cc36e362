// Copyright (c) 2026 AfterMe. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afterme/afterme/internal/auth"
	"github.com/afterme/afterme/internal/platform/apperr"
	"github.com/afterme/afterme/internal/platform/mail"
	"github.com/afterme/afterme/internal/platform/sec"
)

// # Test Fakes

// fakeUserRepository is an in-memory UserRepository that mirrors the storage
// uniqueness invariant: one account per normalized email, enforced atomically
// under a mutex.
type fakeUserRepository struct {
	mu      sync.Mutex
	byEmail map[string]*auth.User
	byID    map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byEmail: make(map[string]*auth.User),
		byID:    make(map[string]*auth.User),
	}
}

func (r *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return auth.ErrDuplicateEmail
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.byEmail[key] = &stored
	r.byID[user.ID] = &stored
	return nil
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, auth.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (r *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	found := *user
	return &found, nil
}

// remove simulates an account deleted after a token was issued for it.
func (r *fakeUserRepository) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byID[id]; ok {
		delete(r.byEmail, strings.ToLower(user.Email))
		delete(r.byID, id)
	}
}

// fakeResetTokenRepository is an in-memory ResetTokenRepository.
type fakeResetTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{tokens: make(map[string]string)}
}

func (r *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = userID
	return nil
}

func (r *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.tokens[token]
	if !ok {
		return "", auth.ErrNotFound
	}
	return userID, nil
}

func (r *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

// stubTransport records dispatched mail and can be forced to fail.
type stubTransport struct {
	mu   sync.Mutex
	sent []mail.Message
	fail error
}

func (t *stubTransport) Name() string { return "stub" }

func (t *stubTransport) Send(_ context.Context, _ string, msg mail.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail != nil {
		return t.fail
	}
	t.sent = append(t.sent, msg)
	return nil
}

func (t *stubTransport) sentCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent)
}

func (t *stubTransport) lastMessage() mail.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sent[len(t.sent)-1]
}

func (t *stubTransport) messages() []mail.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]mail.Message(nil), t.sent...)
}

// # Harness

type serviceHarness struct {
	service     *auth.Service
	users       *fakeUserRepository
	resetTokens *fakeResetTokenRepository
	transport   *stubTransport
	tokens      *sec.TokenService
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()

	tokens, err := sec.NewTokenService("unit-test-secret", "afterme.app")
	require.NoError(t, err)

	users := newFakeUserRepository()
	resetTokens := newFakeResetTokenRepository()
	transport := &stubTransport{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := mail.NewDispatcher(transport, "After Me <no-reply@afterme.app>", logger)

	return &serviceHarness{
		service:     auth.NewService(users, resetTokens, tokens, dispatcher, logger),
		users:       users,
		resetTokens: resetTokens,
		transport:   transport,
		tokens:      tokens,
	}
}

func signupJane(t *testing.T, h *serviceHarness) *auth.User {
	t.Helper()

	user, err := h.service.Signup(context.Background(), auth.SignupInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "correct horse battery",
	})
	require.NoError(t, err)
	return user
}

// # Signup

func TestSignup_CreatesNormalizedAccount(t *testing.T) {
	h := newServiceHarness(t)

	user, err := h.service.Signup(context.Background(), auth.SignupInput{
		FirstName: "  Jane ",
		LastName:  " Doe  ",
		Email:     "Jane@Example.COM",
		Password:  "correct horse battery",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, auth.InitialProfileCompletion, user.ProfileCompletion)

	// The digest must verify against the original password and never equal it.
	assert.NotEqual(t, "correct horse battery", user.PasswordDigest)
	assert.True(t, sec.CheckPasswordHash("correct horse battery", user.PasswordDigest))
}

func TestSignup_MissingFields(t *testing.T) {
	h := newServiceHarness(t)

	testCases := []struct {
		name  string
		input auth.SignupInput
	}{
		{"missing email", auth.SignupInput{Password: "some password"}},
		{"missing password", auth.SignupInput{Email: "jane@example.com"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := h.service.Signup(context.Background(), testCase.input)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "INVALID_INPUT", appError.Code)
			assert.Equal(t, "Email and password are required", appError.Message)
		})
	}
}

func TestSignup_RejectsMalformedEmail(t *testing.T) {
	h := newServiceHarness(t)

	// Shape is judged on the raw input: padding around an otherwise valid
	// address is rejected, not trimmed away first.
	emails := []string{
		"not-an-email",
		"missing-tld@host",
		"two words@example.com",
		"  jane@example.com  ",
		"   ",
	}

	for _, email := range emails {
		_, err := h.service.Signup(context.Background(), auth.SignupInput{
			Email:    email,
			Password: "some password",
		})

		appError := apperr.As(err)
		require.NotNil(t, appError, "email %q must be rejected", email)
		assert.Equal(t, "Please enter a valid email address", appError.Message)
	}
}

func TestSignup_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	h := newServiceHarness(t)
	signupJane(t, h)

	_, err := h.service.Signup(context.Background(), auth.SignupInput{
		Email:    "JANE@EXAMPLE.COM",
		Password: "another password",
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
	assert.Equal(t, 409, appError.HTTPStatus)
	assert.Equal(t, "User already exists with this email", appError.Message)
}

func TestSignup_ConcurrentDuplicatesHaveOneWinner(t *testing.T) {
	h := newServiceHarness(t)

	const attempts = 16
	results := make(chan error, attempts)

	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := h.service.Signup(context.Background(), auth.SignupInput{
				Email:    "Race@Example.com",
				Password: "some password",
			})
			results <- err
		}()
	}
	start.Done()

	var successes, conflicts int
	for i := 0; i < attempts; i++ {
		err := <-results
		if err == nil {
			successes++
			continue
		}
		appError := apperr.As(err)
		require.NotNil(t, appError)
		require.Equal(t, "CONFLICT", appError.Code)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestSignup_DispatchesWelcomeMail(t *testing.T) {
	h := newServiceHarness(t)
	signupJane(t, h)

	// Dispatch is detached from the request, so poll instead of joining.
	require.Eventually(t, func() bool {
		return h.transport.sentCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	message := h.transport.lastMessage()
	assert.Equal(t, "jane@example.com", message.To)
	assert.Contains(t, message.HTML, "Welcome Jane!")
}

func TestSignup_SucceedsWhenWelcomeMailFails(t *testing.T) {
	h := newServiceHarness(t)
	h.transport.fail = errors.New("smtp relay down")

	user, err := h.service.Signup(context.Background(), auth.SignupInput{
		FirstName: "Jane",
		Email:     "jane@example.com",
		Password:  "correct horse battery",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

// # Login

func TestLogin_IssuesSevenDayToken(t *testing.T) {
	h := newServiceHarness(t)
	created := signupJane(t, h)

	session, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "Jane@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, created.ID, session.User.ID)

	claims, err := h.tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, auth.SessionTokenTTL.Seconds(), remaining.Seconds(), 60)
}

func TestLogin_MissingFields(t *testing.T) {
	h := newServiceHarness(t)

	_, err := h.service.Login(context.Background(), auth.LoginInput{Email: "jane@example.com"})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "INVALID_INPUT", appError.Code)
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	h := newServiceHarness(t)
	signupJane(t, h)

	_, unknownErr := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	_, wrongErr := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "jane@example.com",
		Password: "wrong password",
	})

	unknownApp := apperr.As(unknownErr)
	wrongApp := apperr.As(wrongErr)
	require.NotNil(t, unknownApp)
	require.NotNil(t, wrongApp)

	assert.Equal(t, "INVALID_CREDENTIALS", unknownApp.Code)
	assert.Equal(t, unknownApp.Code, wrongApp.Code)
	assert.Equal(t, unknownApp.Message, wrongApp.Message)
	assert.Equal(t, unknownApp.HTTPStatus, wrongApp.HTTPStatus)
	assert.Equal(t, "Invalid email or password", wrongApp.Message)
}

// # Session Resolution

func TestSession_ResolvesBearerToken(t *testing.T) {
	h := newServiceHarness(t)
	created := signupJane(t, h)

	session, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	user, err := h.service.Session(context.Background(), "Bearer "+session.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestSession_HeaderFailures(t *testing.T) {
	h := newServiceHarness(t)

	testCases := []struct {
		name    string
		header  string
		message string
	}{
		{"absent header", "", "No authorization token provided"},
		{"scheme only", "Bearer", "Token missing"},
		{"blank after scheme", "Bearer   ", "Token missing"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := h.service.Session(context.Background(), testCase.header)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "UNAUTHENTICATED", appError.Code)
			assert.Equal(t, testCase.message, appError.Message)
		})
	}
}

func TestSession_ClassifiesTokenFailures(t *testing.T) {
	h := newServiceHarness(t)
	created := signupJane(t, h)

	otherIssuer, err := sec.NewTokenService("a-different-secret", "afterme.app")
	require.NoError(t, err)
	foreignToken, err := otherIssuer.Issue(created.ID, created.Email, auth.SessionTokenTTL)
	require.NoError(t, err)

	expiredToken, err := h.tokens.Issue(created.ID, created.Email, -time.Minute)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		header  string
		message string
		cause   error
	}{
		{"malformed", "Bearer not.a.jwt", "Invalid token", sec.ErrTokenMalformed},
		{"foreign signature", "Bearer " + foreignToken, "Invalid token", sec.ErrTokenSignature},
		{"expired", "Bearer " + expiredToken, "Token expired", sec.ErrTokenExpired},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := h.service.Session(context.Background(), testCase.header)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "UNAUTHENTICATED", appError.Code)
			assert.Equal(t, testCase.message, appError.Message)
			assert.ErrorIs(t, appError.Cause, testCase.cause)
		})
	}
}

func TestSession_DeletedAccountAnswersNotFound(t *testing.T) {
	h := newServiceHarness(t)
	created := signupJane(t, h)

	session, err := h.service.Login(context.Background(), auth.LoginInput{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// The token stays cryptographically valid after the account disappears.
	h.users.remove(created.ID)

	_, err = h.service.Session(context.Background(), "Bearer "+session.Token)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
	assert.Equal(t, "User not found", appError.Message)
}

// # Password Reset Stub

func TestRequestPasswordReset_StoresTokenAndSendsMail(t *testing.T) {
	h := newServiceHarness(t)
	created := signupJane(t, h)

	token, err := h.service.RequestPasswordReset(context.Background(), "Jane@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := h.resetTokens.Get(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)

	// Two messages total: the async welcome mail plus the reset mail, in
	// either order.
	require.Eventually(t, func() bool {
		return h.transport.sentCount() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	var resetSent bool
	for _, message := range h.transport.messages() {
		if strings.Contains(message.HTML, token) {
			resetSent = true
		}
	}
	assert.True(t, resetSent, "reset mail must carry the generated token")
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	h := newServiceHarness(t)

	token, err := h.service.RequestPasswordReset(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Empty(t, token)
}
