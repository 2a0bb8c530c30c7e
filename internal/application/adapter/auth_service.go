// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Credentials is what a user submits on the login screen.
type Credentials struct {
	Email      string
	Password   string
	RememberMe bool
}

// RegistrationFields is what a user submits on the registration screen.
type RegistrationFields struct {
	Name          string
	Email         string
	Password      string
	TermsAccepted bool
}

// SessionUser is the user summary carried by a session.
type SessionUser struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Session is the result of a successful login or registration.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         SessionUser
}

// AuthService is the boundary between the screens and whatever performs authentication.
type AuthService interface {
	// RequestPasswordReset starts the reset flow for email. It succeeds whether or not
	// the account exists.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword sets a new password using a reset token.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// Register creates an account and returns a session for it.
	Register(ctx context.Context, fields RegistrationFields) (*Session, error)

	// Login authenticates credentials and returns a session.
	Login(ctx context.Context, credentials Credentials) (*Session, error)
}

// SessionVerifier resolves an access token back to its user and ends the
// session behind it.
type SessionVerifier interface {
	VerifySession(ctx context.Context, accessToken string) (*SessionUser, error)
	EndSession(ctx context.Context, accessToken string) error
}
