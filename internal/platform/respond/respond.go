// Copyright (c) 2026 AfterMe. All rights reserved.

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses. Every
// response, success or error, uses the same envelope so that clients parse
// one shape:
//
//	{"success": true, "message": "...", "token": "...", "user": {...}}
//	{"success": false, "message": "..."}
//
// The envelope is part of the external contract and must not change shape.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/afterme/afterme/internal/platform/apperr"
	"github.com/afterme/afterme/internal/platform/ctxutil"
)

// Envelope is the JSON body shared by all API responses.
//
// Field order matters for readability of raw responses: success first,
// then message, token, user. Empty fields are omitted.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    any    `json:"user,omitempty"`
	// Error carries an internal detail string. Populated only for 5xx
	// responses in non-production diagnostic mode.
	Error string `json:"error,omitempty"`
}

// exposeInternal controls whether 5xx responses include the underlying error
// detail. Set once at startup via [ExposeInternalErrors]; read-only afterwards.
var exposeInternal bool

// ExposeInternalErrors enables attaching internal error details to 500
// responses. Call it once during startup, and only outside production.
func ExposeInternalErrors(enabled bool) {
	exposeInternal = enabled
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with the given envelope fields.
func OK(writer http.ResponseWriter, envelope Envelope) {
	envelope.Success = true
	JSON(writer, http.StatusOK, envelope)
}

// Created writes a 201 Created response with the given envelope fields.
func Created(writer http.ResponseWriter, envelope Envelope) {
	envelope.Success = true
	JSON(writer, http.StatusCreated, envelope)
}

// Error converts any Go error into the standardized JSON error envelope.
//
// Unknown errors (anything that is not an [*apperr.AppError]) are converted
// to INTERNAL with the fallbackMessage, so storage and library errors never
// leak raw to clients.
func Error(writer http.ResponseWriter, request *http.Request, err error, fallbackMessage string) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		appError = apperr.Internal(fallbackMessage, err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	envelope := Envelope{Success: false, Message: appError.Message}
	if exposeInternal && appError.HTTPStatus >= 500 && appError.Cause != nil {
		envelope.Error = appError.Cause.Error()
	}

	JSON(writer, appError.HTTPStatus, envelope)
}
