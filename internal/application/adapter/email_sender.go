package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutgoingEmail is a rendered message ready for the delivery provider.
type OutgoingEmail struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// Receipt is the provider's acknowledgement of an accepted message.
type Receipt struct {
	ProviderID string
}

// EmailSender hands rendered email to a delivery provider such as Resend.
type EmailSender interface {
	Send(ctx context.Context, email OutgoingEmail) (*Receipt, error)
}

// PasswordResetEmail carries the link of a reset grant to its owner.
type PasswordResetEmail struct {
	UserID   uuid.UUID
	To       string
	Name     string
	ResetURL string
	ValidFor time.Duration
}

// WelcomeEmail greets a newly registered user. An empty LoginURL points at the app root.
type WelcomeEmail struct {
	UserID   uuid.UUID
	To       string
	Name     string
	LoginURL string
}

// EmailService queues the transactional emails of the auth flows.
type EmailService interface {
	QueuePasswordReset(ctx context.Context, email PasswordResetEmail) error
	QueueWelcome(ctx context.Context, email WelcomeEmail) error
}
