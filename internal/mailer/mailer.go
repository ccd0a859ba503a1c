// Package mailer delivers outbound mail through the Resend HTTP API.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Mailer sends one message. Delivery failures are returned to the
// caller; retrying is the caller's decision.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

const defaultBaseURL = "https://api.resend.com"

type Resend struct {
	client *resty.Client
	from   string
}

// NewResend builds a Resend-backed mailer. from is the verified sender
// address, e.g. noreply@example.com.
func NewResend(apiKey, from string) *Resend {
	client := resty.New().
		SetBaseURL(defaultBaseURL).
		SetAuthToken(apiKey).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Resend{client: client, from: from}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (m *Resend) SetBaseURL(u string) { m.client.SetBaseURL(u) }

type sendReq struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *Resend) Send(ctx context.Context, to, subject, html string) error {
	body := sendReq{
		From:    fmt.Sprintf("Asset Manager <%s>", m.from),
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send email: resend returned %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// Disabled is used when no API key is configured; Send always fails so
// misconfiguration surfaces at the call site instead of silently
// dropping mail.
type Disabled struct{}

func (Disabled) Send(context.Context, string, string, string) error {
	return errors.New("mailer not configured: RESEND_API_KEY is empty")
}
