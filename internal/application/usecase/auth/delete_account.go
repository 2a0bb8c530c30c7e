package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domainerror "github.com/authsecure/backend/internal/domain/error"
)

// deleteConfirmation is the word the user types to confirm deletion.
const deleteConfirmation = "DELETE"

// DeleteAccountInput is a signed-in user's deletion request.
type DeleteAccountInput struct {
	UserID   uuid.UUID
	Password string
	// Confirmation is optional; when sent it must be exactly "DELETE".
	Confirmation string
}

// DeleteAccountUseCase removes an account after re-checking its password.
type DeleteAccountUseCase struct {
	ports Ports
}

// NewDeleteAccountUseCase creates a DeleteAccountUseCase.
func NewDeleteAccountUseCase(ports Ports) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{ports: ports}
}

// Execute ends every session of the user and deletes the account with its tokens.
func (uc *DeleteAccountUseCase) Execute(ctx context.Context, input DeleteAccountInput) error {
	if input.Confirmation != "" && input.Confirmation != deleteConfirmation {
		return domainerror.NewAuthError(
			domainerror.ErrCodeInvalidConfirmation,
			"confirmation must be exactly 'DELETE'",
			nil,
		)
	}

	user, err := uc.ports.Users.FindByID(ctx, input.UserID)
	if errors.Is(err, domainerror.ErrUserNotFound) {
		return domainerror.NewAuthError(domainerror.ErrCodeUserNotFound, "user not found", err)
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if !uc.ports.Passwords.Matches(user.PasswordHash, input.Password) {
		return invalidCredentials("invalid password")
	}

	if err := uc.ports.Sessions.RevokeAll(ctx, user.ID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if err := uc.ports.Users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
