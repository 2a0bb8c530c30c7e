package adapters

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/authsecure/backend/internal/application/adapter"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

const (
	// DefaultSimulatedLatency matches the delay of the mocked screens.
	DefaultSimulatedLatency = 1500 * time.Millisecond

	simulatedTokenPrefix = "simulated."
	simulatedSessionTTL  = 24 * time.Hour
)

// SimulatedAuthService accepts every request after a fixed delay. It stores no
// users and verifies no credentials, so a verified session only knows the
// user's ID. Ended sessions are remembered in memory.
type SimulatedAuthService struct {
	latency time.Duration
	now     func() time.Time
	ended   sync.Map
}

var (
	_ adapter.AuthService     = (*SimulatedAuthService)(nil)
	_ adapter.SessionVerifier = (*SimulatedAuthService)(nil)
)

// NewSimulatedAuthService creates a simulated backend. A negative latency uses
// DefaultSimulatedLatency; zero disables the delay.
func NewSimulatedAuthService(latency time.Duration) *SimulatedAuthService {
	if latency < 0 {
		latency = DefaultSimulatedLatency
	}
	return &SimulatedAuthService{
		latency: latency,
		now:     time.Now,
	}
}

// RequestPasswordReset implements adapter.AuthService.
func (s *SimulatedAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	slog.Info("Simulated password reset requested", "email", email)
	return s.wait(ctx)
}

// ResetPassword implements adapter.AuthService.
func (s *SimulatedAuthService) ResetPassword(ctx context.Context, token, _ string) error {
	slog.Info("Simulated password reset", "hasToken", token != "")
	return s.wait(ctx)
}

// Register implements adapter.AuthService.
func (s *SimulatedAuthService) Register(ctx context.Context, fields adapter.RegistrationFields) (*adapter.Session, error) {
	slog.Info("Simulated registration", "email", fields.Email, "name", fields.Name)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.session(fields.Email, fields.Name), nil
}

// Login implements adapter.AuthService.
func (s *SimulatedAuthService) Login(ctx context.Context, credentials adapter.Credentials) (*adapter.Session, error) {
	slog.Info("Simulated login", "email", credentials.Email, "rememberMe", credentials.RememberMe)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.session(credentials.Email, nameFromEmail(credentials.Email)), nil
}

// VerifySession implements adapter.SessionVerifier. Any token this service issued is
// accepted and resolves to a generic user.
func (s *SimulatedAuthService) VerifySession(_ context.Context, accessToken string) (*adapter.SessionUser, error) {
	rest, ok := strings.CutPrefix(accessToken, simulatedTokenPrefix)
	if !ok {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeInvalidToken, "invalid session", domainerror.ErrInvalidToken)
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeInvalidToken, "invalid session", domainerror.ErrInvalidToken)
	}
	if _, gone := s.ended.Load(accessToken); gone {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeInvalidToken, "session ended", domainerror.ErrInvalidToken)
	}
	return &adapter.SessionUser{ID: id, Name: "User"}, nil
}

// EndSession implements adapter.SessionVerifier.
func (s *SimulatedAuthService) EndSession(_ context.Context, accessToken string) error {
	if strings.HasPrefix(accessToken, simulatedTokenPrefix) {
		s.ended.Store(accessToken, struct{}{})
	}
	return nil
}

func (s *SimulatedAuthService) session(email, name string) *adapter.Session {
	id := uuid.New()
	return &adapter.Session{
		AccessToken:  simulatedTokenPrefix + id.String(),
		RefreshToken: simulatedTokenPrefix + uuid.NewString(),
		ExpiresAt:    s.now().UTC().Add(simulatedSessionTTL),
		User: adapter.SessionUser{
			ID:    id,
			Email: email,
			Name:  name,
		},
	}
}

// wait blocks for the configured latency or until ctx is done.
func (s *SimulatedAuthService) wait(ctx context.Context) error {
	if s.latency == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nameFromEmail(email string) string {
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return "User"
}
