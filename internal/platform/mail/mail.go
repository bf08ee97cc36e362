// Copyright (c) 2026 AfterMe. All rights reserved.

/*
Package mail implements best-effort transactional email delivery.

Two interchangeable transports exist: the Resend HTTP API and plain SMTP.
Exactly one (or none) is chosen at process start from configuration; nothing
in this package reads the environment at call time.

# Best Effort Delivery

Delivery outcomes are logged, never returned as faults. A signup must succeed
whether the welcome mail was sent, skipped, or failed — mail-transport latency
and availability stay out of the request path entirely.
*/
package mail

import "context"

// Message is a fully rendered email ready for a transport.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Transport delivers a rendered message through one concrete backend.
type Transport interface {
	// Send delivers the message. The returned error is for the dispatcher's
	// logging only; it never reaches request handlers.
	Send(ctx context.Context, from string, msg Message) error

	// Name identifies the backend in logs ("resend", "smtp").
	Name() string
}

// Outcome is the tagged result of a dispatch attempt.
type Outcome int

const (
	// OutcomeSkipped means no transport is configured; nothing was attempted.
	OutcomeSkipped Outcome = iota
	// OutcomeSent means the transport accepted the message.
	OutcomeSent
	// OutcomeFailed means the transport returned an error, which was logged
	// and swallowed.
	OutcomeFailed
)

// String returns the log-friendly name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}
