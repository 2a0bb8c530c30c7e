package email

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/entity"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

var subjects = map[entity.EmailTemplateType]string{
	entity.TemplatePasswordReset: "Reset your password - AuthSecure",
	entity.TemplateWelcome:       "Welcome to AuthSecure",
}

// Queue turns auth events into outbox jobs. Delivery happens later in the Worker.
type Queue struct {
	outbox     adapter.EmailOutbox
	appBaseURL string
}

var _ adapter.EmailService = (*Queue)(nil)

// NewQueue creates a Queue writing to outbox.
func NewQueue(outbox adapter.EmailOutbox, appBaseURL string) *Queue {
	return &Queue{outbox: outbox, appBaseURL: appBaseURL}
}

func (q *Queue) QueuePasswordReset(ctx context.Context, email adapter.PasswordResetEmail) error {
	return q.enqueue(ctx, entity.TemplatePasswordReset, email.To, email.Name, map[string]string{
		"UserName":  email.Name,
		"ResetURL":  email.ResetURL,
		"ExpiresIn": FormatValidity(email.ValidFor),
	})
}

func (q *Queue) QueueWelcome(ctx context.Context, email adapter.WelcomeEmail) error {
	loginURL := email.LoginURL
	if loginURL == "" {
		loginURL = q.appBaseURL + "/"
	}
	return q.enqueue(ctx, entity.TemplateWelcome, email.To, email.Name, map[string]string{
		"UserName": email.Name,
		"LoginURL": loginURL,
	})
}

func (q *Queue) enqueue(ctx context.Context, kind entity.EmailTemplateType, to, name string, data map[string]string) error {
	job := entity.NewEmailJob(kind, to, name, subjects[kind], data)
	if err := q.outbox.Enqueue(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			fmt.Sprintf("failed to queue %s email", kind),
			err,
		)
	}
	return nil
}

// FormatValidity renders a link lifetime for an email body, e.g. "1 hour" or "90 minutes".
func FormatValidity(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short while"
	case d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
