// Copyright (c) 2026 AfterMe. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/afterme/afterme/internal/platform/constants"
	requestutil "github.com/afterme/afterme/internal/platform/request"
	"github.com/afterme/afterme/internal/platform/respond"
	"github.com/afterme/afterme/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
//
// The handler is a thin mediation layer: transport concerns (status codes,
// headers, JSON) live here, every decision lives in [Service].
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the authentication routes.
//
// # Endpoints
//   - POST /signup : Creates a new account.
//   - POST /login  : Authenticates and returns a session token.
//   - GET  /me     : Resolves the bearer token into the current account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Get("/me", handler.me)

	return router
}

// # Request Payloads

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Signup handles the creation of a new user account.

POST /auth/signup

Description: Decodes and bounds the input, then delegates to the service,
which settles email uniqueness against storage.

Request:
  - Body: signupRequest (FirstName, LastName, Email, Password)

Response:
  - 201: {success, message, user}: Created account
  - 400: Missing or malformed email/password
  - 409: Email already registered
  - 500: {success:false, message:"Server error during signup"}
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	const fallback = "Server error during signup"

	var input signupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err, fallback)
		return
	}

	// Email and password requiredness (and shape) belong to the service,
	// which owns the exact client messages. Names are bounded here.
	validator := &validate.Validator{}
	validator.MaxLen(FieldFirstName, input.FirstName, MaxNameLength).
		MaxLen(FieldLastName, input.LastName, MaxNameLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err, fallback)
		return
	}

	user, err := handler.authService.Signup(request.Context(), SignupInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err, fallback)
		return
	}

	respond.Created(writer, respond.Envelope{
		Message: "User created successfully",
		User:    user.Created(),
	})
}

/*
Login authenticates a user and issues a session token.

POST /auth/login

Description: Verifies credentials and returns a signed 7-day bearer token
alongside the account profile.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: {success, message, token, user}: Established session
  - 400: Missing email or password
  - 401: {success:false, message:"Invalid email or password"}
  - 500: {success:false, message:"Server error during login"}
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	const fallback = "Server error during login"

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err, fallback)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err, fallback)
		return
	}

	respond.OK(writer, respond.Envelope{
		Message: "Login successful",
		Token:   session.Token,
		User:    session.User.Profile(),
	})
}

/*
Me returns the account behind the presented bearer token.

GET /auth/me

Description: Resolves the Authorization header into the current account.
Verification failures and missing headers both answer 401; a valid token
whose account no longer exists answers 404.

Response:
  - 200: {success, user}: Full non-sensitive account record
  - 401: Missing, malformed, tampered or expired token
  - 404: {success:false, message:"User not found"}
  - 500: {success:false, message:"Server error"}
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	const fallback = "Server error"

	user, err := handler.authService.Session(
		request.Context(),
		request.Header.Get(constants.HeaderAuthorization),
	)
	if err != nil {
		respond.Error(writer, request, err, fallback)
		return
	}

	respond.OK(writer, respond.Envelope{User: user.Account()})
}
