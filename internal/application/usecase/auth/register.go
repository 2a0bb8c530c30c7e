package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/entity"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

// RegisterUseCase creates accounts and signs the new user in.
type RegisterUseCase struct {
	ports Ports
}

// NewRegisterUseCase creates a RegisterUseCase.
func NewRegisterUseCase(ports Ports) *RegisterUseCase {
	return &RegisterUseCase{ports: ports}
}

// Execute validates fields in screen order, stores the user and issues a
// standard-length session. A failed welcome email does not fail registration.
func (uc *RegisterUseCase) Execute(ctx context.Context, fields adapter.RegistrationFields) (*adapter.Session, error) {
	if !fields.TermsAccepted {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeTermsNotAccepted,
			"terms of service must be accepted",
			domainerror.ErrTermsNotAccepted,
		)
	}

	email, err := normalizedEmail(fields.Email)
	if err != nil {
		return nil, err
	}
	if err := uc.ports.Passwords.CheckPolicy(fields.Password); err != nil {
		return nil, weakPassword()
	}

	taken, err := uc.ports.Users.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, emailTaken()
	}

	hash, err := uc.ports.Passwords.Hash(fields.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := entity.NewUser(email, fields.Name, hash, uc.ports.now())
	if err := uc.ports.Users.Create(ctx, user); err != nil {
		// A concurrent registration can win between EmailTaken and Create.
		if errors.Is(err, domainerror.ErrEmailAlreadyExists) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	issued, err := uc.ports.Sessions.Issue(ctx, adapter.TokenSubject{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	if uc.ports.Emails != nil {
		welcome := adapter.WelcomeEmail{UserID: user.ID, To: user.Email, Name: user.Name}
		if err := uc.ports.Emails.QueueWelcome(ctx, welcome); err != nil {
			slog.ErrorContext(ctx, "Failed to queue welcome email", "error", err, "user_id", user.ID)
		}
	}

	return sessionFor(user, issued), nil
}
