package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/authsecure/backend/internal/application/adapter"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

// LoginUseCase checks credentials and opens a session.
type LoginUseCase struct {
	ports Ports
}

// NewLoginUseCase creates a LoginUseCase.
func NewLoginUseCase(ports Ports) *LoginUseCase {
	return &LoginUseCase{ports: ports}
}

// Execute returns the same error for an unknown email and a wrong password.
// RememberMe selects the long session lifetimes.
func (uc *LoginUseCase) Execute(ctx context.Context, credentials adapter.Credentials) (*adapter.Session, error) {
	user, err := uc.ports.Users.FindByEmail(ctx, credentials.Email)
	if errors.Is(err, domainerror.ErrUserNotFound) {
		return nil, invalidCredentials("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !uc.ports.Passwords.Matches(user.PasswordHash, credentials.Password) {
		return nil, invalidCredentials("invalid email or password")
	}

	issued, err := uc.ports.Sessions.Issue(ctx, adapter.TokenSubject{
		UserID:     user.ID,
		Email:      user.Email,
		RememberMe: credentials.RememberMe,
	})
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return sessionFor(user, issued), nil
}
