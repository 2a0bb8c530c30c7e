package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/authsecure/backend/internal/application/adapter"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

// RequestResetUseCase starts the forgotten password flow.
type RequestResetUseCase struct {
	ports Ports
}

// NewRequestResetUseCase creates a RequestResetUseCase.
func NewRequestResetUseCase(ports Ports) *RequestResetUseCase {
	return &RequestResetUseCase{ports: ports}
}

// Execute grants a reset token and queues the link when the account exists.
// Only a malformed email is reported; every other outcome looks like success
// so the response cannot be used to enumerate accounts.
func (uc *RequestResetUseCase) Execute(ctx context.Context, email string) error {
	normalized, err := normalizedEmail(email)
	if err != nil {
		return err
	}

	user, err := uc.ports.Users.FindByEmail(ctx, normalized)
	if errors.Is(err, domainerror.ErrUserNotFound) {
		slog.DebugContext(ctx, "Password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	grant, err := uc.ports.Resets.Grant(ctx, user.ID, user.Email)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to grant reset token", "error", err, "user_id", user.ID)
		return nil
	}
	resetURL := uc.ports.AppBaseURL + "/reset-password?" + url.Values{"token": {grant.Token}}.Encode()

	if uc.ports.Emails == nil {
		slog.InfoContext(ctx, "Password reset link issued without email delivery",
			"user_id", user.ID,
			"reset_url", resetURL,
		)
		return nil
	}

	err = uc.ports.Emails.QueuePasswordReset(ctx, adapter.PasswordResetEmail{
		UserID:   user.ID,
		To:       user.Email,
		Name:     user.Name,
		ResetURL: resetURL,
		ValidFor: uc.ports.Resets.Validity(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to queue password reset email", "error", err, "user_id", user.ID)
		return nil
	}
	slog.InfoContext(ctx, "Password reset email queued", "user_id", user.ID)
	return nil
}

// ResetPasswordUseCase redeems a reset token for a new password.
type ResetPasswordUseCase struct {
	ports Ports
}

// NewResetPasswordUseCase creates a ResetPasswordUseCase.
func NewResetPasswordUseCase(ports Ports) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{ports: ports}
}

// Execute sets the new password and signs the user out everywhere.
// The token is redeemed before the password changes so two concurrent
// submissions of one link cannot both succeed.
func (uc *ResetPasswordUseCase) Execute(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domainerror.NewAuthError(
			domainerror.ErrCodeMissingToken,
			"password reset token is required",
			domainerror.ErrInvalidResetToken,
		)
	}

	grant, err := uc.ports.Resets.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, adapter.ErrTokenRejected) {
			return invalidResetToken()
		}
		return fmt.Errorf("look up reset token: %w", err)
	}

	now := uc.ports.now()
	if grant.Expired(now) {
		return domainerror.NewAuthError(
			domainerror.ErrCodeExpiredResetToken,
			"password reset token has expired",
			domainerror.ErrInvalidResetToken,
		)
	}
	if err := uc.ports.Passwords.CheckPolicy(newPassword); err != nil {
		return weakPassword()
	}

	hash, err := uc.ports.Passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := uc.ports.Resets.Redeem(ctx, token); err != nil {
		if errors.Is(err, adapter.ErrTokenRejected) {
			return invalidResetToken()
		}
		return fmt.Errorf("redeem reset token: %w", err)
	}

	if err := uc.ports.Users.SetPassword(ctx, grant.UserID, hash, now); err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return domainerror.NewAuthError(domainerror.ErrCodeUserNotFound, "user not found", err)
		}
		return fmt.Errorf("set password: %w", err)
	}

	if err := uc.ports.Sessions.RevokeAll(ctx, grant.UserID); err != nil {
		slog.ErrorContext(ctx, "Failed to revoke sessions after password reset", "error", err, "user_id", grant.UserID)
	}
	slog.InfoContext(ctx, "Password reset completed", "user_id", grant.UserID)
	return nil
}

func invalidResetToken() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeInvalidResetToken,
		"invalid or expired password reset token",
		domainerror.ErrInvalidResetToken,
	)
}
