// Copyright (c) 2026 AfterMe. All rights reserved.

package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// resendEndpoint is the Resend transactional email API.
const resendEndpoint = "https://api.resend.com/emails"

// resendTimeout bounds a single API call. Dispatch runs off the request path,
// so this protects the worker goroutine, not client latency.
const resendTimeout = 10 * time.Second

// ResendTransport delivers mail through the Resend HTTP API.
type ResendTransport struct {
	apiKey string
	client *http.Client
}

// NewResendTransport constructs a transport around the given API key.
func NewResendTransport(apiKey string) *ResendTransport {
	return &ResendTransport{
		apiKey: apiKey,
		client: &http.Client{Timeout: resendTimeout},
	}
}

// Name implements [Transport].
func (t *ResendTransport) Name() string { return "resend" }

// resendPayload is the wire shape of a Resend send request.
type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Send implements [Transport].
func (t *ResendTransport) Send(ctx context.Context, from string, msg Message) error {
	body, err := json.Marshal(resendPayload{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("mail: failed to encode resend payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mail: failed to build resend request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+t.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := t.client.Do(request)
	if err != nil {
		return fmt.Errorf("mail: resend request failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode >= 400 {
		// Include a bounded slice of the body for diagnostics.
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return fmt.Errorf("mail: resend API returned %d: %s", response.StatusCode, detail)
	}

	return nil
}
