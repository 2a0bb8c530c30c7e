// Package email queues, renders and delivers the transactional emails.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/authsecure/backend/internal/application/adapter"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

// permanentMarkers are substrings of Resend errors that no retry will fix:
// bad credentials, forbidden senders and rejected payloads.
var permanentMarkers = []string{
	"401", "403", "422",
	"unauthorized", "forbidden", "validation", "invalid", "bad request",
}

// ResendClient delivers email through the Resend API.
type ResendClient struct {
	client *resend.Client
	from   string
}

var _ adapter.EmailSender = (*ResendClient)(nil)

// NewResendClient creates a client sending as "fromName <fromEmail>".
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		client: resend.NewClient(apiKey),
		from:   fmt.Sprintf("%s <%s>", fromName, fromEmail),
	}
}

// WithBaseURL points the client at another Resend-compatible API, such as a local mock.
func (c *ResendClient) WithBaseURL(raw string) (*ResendClient, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid resend base url: %w", err)
	}
	c.client.BaseURL = u
	return c, nil
}

func (c *ResendClient) Send(ctx context.Context, email adapter.OutgoingEmail) (*adapter.Receipt, error) {
	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return nil, classifyResendError(err)
	}
	return &adapter.Receipt{ProviderID: resp.Id}, nil
}

// classifyResendError decides whether the worker may retry. Rate limiting and
// anything unrecognised, such as network failures, count as temporary.
func classifyResendError(err error) error {
	var rateLimited *resend.RateLimitError
	if errors.As(err, &rateLimited) {
		return domainerror.NewEmailError(domainerror.ErrCodeTemporaryEmailFailure, "resend rate limit", err)
	}
	if isPermanentError(err) {
		return domainerror.NewEmailError(domainerror.ErrCodePermanentEmailFailure, "resend rejected email", err)
	}
	return domainerror.NewEmailError(domainerror.ErrCodeTemporaryEmailFailure, "resend unavailable", err)
}

func isPermanentError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
