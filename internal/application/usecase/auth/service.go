package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/authsecure/backend/internal/application/adapter"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

// Service is the database-backed AuthService and SessionVerifier.
type Service struct {
	register      *RegisterUseCase
	login         *LoginUseCase
	requestReset  *RequestResetUseCase
	resetPassword *ResetPasswordUseCase
	sessions      *SessionUseCase
	deleteAccount *DeleteAccountUseCase
	ports         Ports
	metrics       adapter.MetricsRecorder
}

var (
	_ adapter.AuthService     = (*Service)(nil)
	_ adapter.SessionVerifier = (*Service)(nil)
)

// NewService builds every auth use case over ports. A nil metrics recorder
// discards counters.
func NewService(ports Ports, metrics adapter.MetricsRecorder) *Service {
	if metrics == nil {
		metrics = adapter.NoopMetrics{}
	}
	return &Service{
		register:      NewRegisterUseCase(ports),
		login:         NewLoginUseCase(ports),
		requestReset:  NewRequestResetUseCase(ports),
		resetPassword: NewResetPasswordUseCase(ports),
		sessions:      NewSessionUseCase(ports),
		deleteAccount: NewDeleteAccountUseCase(ports),
		ports:         ports,
		metrics:       metrics,
	}
}

// Sessions returns the refresh and logout use case.
func (s *Service) Sessions() *SessionUseCase { return s.sessions }

// AccountDeletion returns the delete account use case.
func (s *Service) AccountDeletion() *DeleteAccountUseCase { return s.deleteAccount }

// RequestPasswordReset implements adapter.AuthService.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	err := s.requestReset.Execute(ctx, email)
	s.record("forgot_password", err)
	return err
}

// ResetPassword implements adapter.AuthService.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	err := s.resetPassword.Execute(ctx, token, newPassword)
	s.record("reset_password", err)
	return err
}

// Register implements adapter.AuthService.
func (s *Service) Register(ctx context.Context, fields adapter.RegistrationFields) (*adapter.Session, error) {
	session, err := s.register.Execute(ctx, fields)
	s.record("register", err)
	return session, err
}

// Login implements adapter.AuthService.
func (s *Service) Login(ctx context.Context, credentials adapter.Credentials) (*adapter.Session, error) {
	session, err := s.login.Execute(ctx, credentials)
	s.record("login", err)
	return session, err
}

// VerifySession implements adapter.SessionVerifier.
func (s *Service) VerifySession(ctx context.Context, accessToken string) (*adapter.SessionUser, error) {
	subject, err := s.ports.Sessions.VerifyAccess(ctx, accessToken)
	if errors.Is(err, adapter.ErrTokenRejected) {
		return nil, invalidSession("invalid or expired session")
	}
	if err != nil {
		return nil, fmt.Errorf("verify access token: %w", err)
	}

	user, err := s.ports.Users.FindByID(ctx, subject.UserID)
	if errors.Is(err, domainerror.ErrUserNotFound) {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeUserNotFound, "user not found", err)
	}
	if err != nil {
		return nil, err
	}
	return &adapter.SessionUser{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// EndSession implements adapter.SessionVerifier.
func (s *Service) EndSession(ctx context.Context, accessToken string) error {
	err := s.sessions.EndSession(ctx, accessToken)
	s.record("end_session", err)
	return err
}

func (s *Service) record(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if code, ok := domainerror.AuthErrorCodeOf(err); ok {
			outcome = string(code)
		}
	}
	s.metrics.AuthRequest(operation, outcome)
}
