// Copyright (c) 2026 AfterMe. All rights reserved.

package mail

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// SMTPTransport delivers mail through a plain SMTP relay with PLAIN auth
// (SendGrid relay, Gmail app passwords, or any standard submission endpoint).
type SMTPTransport struct {
	host     string
	port     string
	username string
	password string
}

// NewSMTPTransport constructs a transport for the given relay credentials.
func NewSMTPTransport(host, port, username, password string) *SMTPTransport {
	return &SMTPTransport{host: host, port: port, username: username, password: password}
}

// Name implements [Transport].
func (t *SMTPTransport) Name() string { return "smtp" }

// Send implements [Transport].
//
// net/smtp has no context support; the ctx parameter exists to satisfy
// [Transport] and is consulted only before dialing.
func (t *SMTPTransport) Send(ctx context.Context, from string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mail: smtp send aborted: %w", err)
	}

	auth := smtp.PlainAuth("", t.username, t.password, t.host)
	addr := t.host + ":" + t.port

	payload := buildMIMEMessage(from, msg)
	if err := smtp.SendMail(addr, auth, envelopeAddress(from), []string{msg.To}, payload); err != nil {
		return fmt.Errorf("mail: smtp send failed: %w", err)
	}

	return nil
}

// buildMIMEMessage renders the RFC 5322 message bytes for an HTML email.
func buildMIMEMessage(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// envelopeAddress extracts the bare address from a "Display Name <addr>" from
// header, which is what the SMTP MAIL FROM command expects.
func envelopeAddress(from string) string {
	if start := strings.LastIndex(from, "<"); start != -1 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return from
}
