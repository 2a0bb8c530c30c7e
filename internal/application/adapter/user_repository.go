// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/authsecure/backend/internal/domain/entity"
)

// UserRepository stores accounts. Emails are compared in their normalized form.
type UserRepository interface {
	// Create inserts a user. A taken email yields domainerror.ErrEmailAlreadyExists.
	Create(ctx context.Context, user *entity.User) error

	// FindByID returns the user or domainerror.ErrUserNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail returns the user or domainerror.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// EmailTaken reports whether an account already uses email.
	EmailTaken(ctx context.Context, email string) (bool, error)

	// SetPassword replaces the password hash of an existing account.
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error

	// Delete removes an account together with its session and reset tokens.
	Delete(ctx context.Context, id uuid.UUID) error
}
