// Package auth contains the account and session use cases of the database backend.
package auth

import (
	"regexp"
	"time"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/entity"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

// Ports are the adapters the use cases run against. Emails may be nil, in
// which case nothing is queued and reset links are only logged.
type Ports struct {
	Users      adapter.UserRepository
	Passwords  adapter.PasswordHasher
	Sessions   adapter.SessionTokens
	Resets     adapter.ResetTokens
	Emails     adapter.EmailService
	AppBaseURL string

	// Now defaults to the UTC wall clock.
	Now func() time.Time
}

func (p Ports) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// normalizedEmail returns the stored form of email, or an invalid email error.
func normalizedEmail(email string) (string, error) {
	normalized := entity.NormalizeEmail(email)
	if !emailPattern.MatchString(normalized) {
		return "", domainerror.NewAuthError(
			domainerror.ErrCodeInvalidEmail,
			"invalid email format",
			domainerror.ErrInvalidEmail,
		)
	}
	return normalized, nil
}

func invalidCredentials(message string) error {
	return domainerror.NewAuthError(domainerror.ErrCodeInvalidCredentials, message, domainerror.ErrInvalidCredentials)
}

func weakPassword() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeWeakPassword,
		"password does not meet minimum requirements",
		domainerror.ErrWeakPassword,
	)
}

func emailTaken() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeEmailExists,
		"email already exists",
		domainerror.ErrEmailAlreadyExists,
	)
}

func invalidSession(message string) error {
	return domainerror.NewAuthError(domainerror.ErrCodeInvalidToken, message, domainerror.ErrInvalidToken)
}

func sessionFor(user *entity.User, issued *adapter.IssuedTokens) *adapter.Session {
	return &adapter.Session{
		AccessToken:  issued.AccessToken,
		RefreshToken: issued.RefreshToken,
		ExpiresAt:    issued.AccessExpiresAt,
		User: adapter.SessionUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	}
}
