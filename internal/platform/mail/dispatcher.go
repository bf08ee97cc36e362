// Copyright (c) 2026 AfterMe. All rights reserved.

package mail

import (
	"context"
	"fmt"
	"log/slog"
)

// Dispatcher renders and delivers notification emails through the configured
// transport.
//
// # Contract
//
// Every Send method returns an [Outcome], never an error. All three outcomes
// (sent, skipped, failed) are logged; none propagate to the caller. This is
// the one place in the service where failure is swallowed on purpose.
type Dispatcher struct {
	transport Transport // nil means mail is disabled
	from      string
	logger    *slog.Logger
}

// NewDispatcher constructs a Dispatcher. A nil transport disables delivery:
// every dispatch then reports [OutcomeSkipped].
func NewDispatcher(transport Transport, from string, logger *slog.Logger) *Dispatcher {
	if transport == nil {
		logger.Warn("mail_disabled_no_transport_configured")
	} else {
		logger.Info("mail_transport_selected", slog.String("transport", transport.Name()))
	}
	return &Dispatcher{transport: transport, from: from, logger: logger}
}

// SendWelcome delivers the post-signup welcome email.
//
// An empty name falls back to a friendly placeholder.
func (d *Dispatcher) SendWelcome(ctx context.Context, to, name string) Outcome {
	if name == "" {
		name = "there"
	}

	msg := Message{
		To:      to,
		Subject: "Welcome to After Me 🤍",
		HTML: fmt.Sprintf(
			"<h2>Welcome %s!</h2>\n<p>Your account has been created successfully.</p>\n<p>– Team After Me</p>",
			name,
		),
		Text: fmt.Sprintf(
			"Welcome %s to After Me!\n\nYour account has been created successfully.\n\nThank you for joining us!\n\n- Team After Me",
			name,
		),
	}

	return d.deliver(ctx, "welcome", msg)
}

// SendPasswordReset delivers the password-reset link email.
func (d *Dispatcher) SendPasswordReset(ctx context.Context, to, resetLink string) Outcome {
	msg := Message{
		To:      to,
		Subject: "Reset Your After Me Password",
		HTML: fmt.Sprintf(
			"<h2>Password Reset Request</h2>\n<p>Click the link below to reset your password:</p>\n<a href=%q>Reset Password</a>\n<p>This link will expire in 1 hour.</p>",
			resetLink,
		),
		Text: fmt.Sprintf(
			"Password Reset Request\n\nOpen the link below to reset your password:\n%s\n\nThis link will expire in 1 hour.",
			resetLink,
		),
	}

	return d.deliver(ctx, "password_reset", msg)
}

// deliver runs one attempt against the transport and logs the outcome.
func (d *Dispatcher) deliver(ctx context.Context, kind string, msg Message) Outcome {
	if d.transport == nil {
		d.logger.Info("mail_skipped_no_transport",
			slog.String("kind", kind),
			slog.String("to", msg.To),
		)
		return OutcomeSkipped
	}

	if err := d.transport.Send(ctx, d.from, msg); err != nil {
		d.logger.Error("mail_send_failed",
			slog.String("kind", kind),
			slog.String("transport", d.transport.Name()),
			slog.String("to", msg.To),
			slog.Any("error", err),
		)
		return OutcomeFailed
	}

	d.logger.Info("mail_sent",
		slog.String("kind", kind),
		slog.String("transport", d.transport.Name()),
		slog.String("to", msg.To),
	)
	return OutcomeSent
}
