// Copyright (c) 2026 AfterMe. All rights reserved.

package mail_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afterme/afterme/internal/platform/mail"
)

// recordingTransport captures the messages a dispatcher hands it and can be
// forced to fail.
type recordingTransport struct {
	sent     []mail.Message
	fail     error
	lastFrom string
}

func (t *recordingTransport) Name() string { return "recording" }

func (t *recordingTransport) Send(_ context.Context, from string, msg mail.Message) error {
	if t.fail != nil {
		return t.fail
	}
	t.lastFrom = from
	t.sent = append(t.sent, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_SendWelcome_Sent(t *testing.T) {
	transport := &recordingTransport{}
	dispatcher := mail.NewDispatcher(transport, "After Me <no-reply@afterme.app>", discardLogger())

	outcome := dispatcher.SendWelcome(context.Background(), "jane@example.com", "Jane")

	assert.Equal(t, mail.OutcomeSent, outcome)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "jane@example.com", transport.sent[0].To)
	assert.Contains(t, transport.sent[0].HTML, "Welcome Jane!")
	assert.Equal(t, "After Me <no-reply@afterme.app>", transport.lastFrom)
}

func TestDispatcher_SendWelcome_EmptyNameFallback(t *testing.T) {
	transport := &recordingTransport{}
	dispatcher := mail.NewDispatcher(transport, "no-reply@afterme.app", discardLogger())

	dispatcher.SendWelcome(context.Background(), "jane@example.com", "")

	require.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0].HTML, "Welcome there!")
}

func TestDispatcher_NoTransport_Skips(t *testing.T) {
	dispatcher := mail.NewDispatcher(nil, "no-reply@afterme.app", discardLogger())

	outcome := dispatcher.SendWelcome(context.Background(), "jane@example.com", "Jane")

	assert.Equal(t, mail.OutcomeSkipped, outcome)
}

func TestDispatcher_TransportFailure_SwallowedAsFailed(t *testing.T) {
	transport := &recordingTransport{fail: errors.New("relay unavailable")}
	dispatcher := mail.NewDispatcher(transport, "no-reply@afterme.app", discardLogger())

	// The failure must surface only as an outcome value, never a panic or error.
	outcome := dispatcher.SendWelcome(context.Background(), "jane@example.com", "Jane")

	assert.Equal(t, mail.OutcomeFailed, outcome)
}

func TestDispatcher_SendPasswordReset(t *testing.T) {
	transport := &recordingTransport{}
	dispatcher := mail.NewDispatcher(transport, "no-reply@afterme.app", discardLogger())

	outcome := dispatcher.SendPasswordReset(context.Background(), "jane@example.com", "https://afterme.app/reset?token=abc")

	assert.Equal(t, mail.OutcomeSent, outcome)
	require.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0].HTML, "https://afterme.app/reset?token=abc")
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "sent", mail.OutcomeSent.String())
	assert.Equal(t, "skipped", mail.OutcomeSkipped.String())
	assert.Equal(t, "failed", mail.OutcomeFailed.String())
}
