package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/authsecure/backend/internal/application/adapter"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

// SessionUseCase refreshes and ends sessions.
type SessionUseCase struct {
	ports Ports
}

// NewSessionUseCase creates a SessionUseCase.
func NewSessionUseCase(ports Ports) *SessionUseCase {
	return &SessionUseCase{ports: ports}
}

// Refresh rotates refreshToken. The new pair keeps the remember-me choice
// made at login, and the presented token cannot be used again.
func (uc *SessionUseCase) Refresh(ctx context.Context, refreshToken string) (*adapter.IssuedTokens, error) {
	if refreshToken == "" {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeMissingToken,
			"refresh token is required",
			domainerror.ErrInvalidToken,
		)
	}

	_, issued, err := uc.ports.Sessions.Rotate(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, adapter.ErrTokenRejected) {
			return nil, invalidSession("invalid or expired refresh token")
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return issued, nil
}

// Logout revokes refreshToken. It never fails the caller: an unknown or
// already revoked token means the session is over anyway.
func (uc *SessionUseCase) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	if err := uc.ports.Sessions.Revoke(ctx, refreshToken); err != nil {
		slog.WarnContext(ctx, "Failed to revoke refresh token on logout", "error", err)
	}
}

// EndSession revokes the session an access token belongs to, so the token
// and its refresh half stop working. A token that is already rejected is
// not an error.
func (uc *SessionUseCase) EndSession(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	err := uc.ports.Sessions.EndSession(ctx, accessToken)
	if err == nil || errors.Is(err, adapter.ErrTokenRejected) {
		return nil
	}
	return fmt.Errorf("end session: %w", err)
}
