package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/entity"
	domainerror "github.com/authsecure/backend/internal/domain/error"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	lookupErr error // fails every lookup when set
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domainerror.ErrEmailAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	email = entity.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) SetPassword(_ context.Context, id uuid.UUID, hash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domainerror.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// fakeHasher "hashes" by prefixing and rejects anything under 8 bytes.
type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (fakeHasher) Matches(hash, plain string) bool {
	return hash == "hashed:"+plain
}

func (fakeHasher) CheckPolicy(password string) error {
	if len(password) < 8 {
		return errors.New("too short")
	}
	return nil
}

// fakeSessions encodes the subject into readable tokens of the form
// kind:userID:nonce:rememberMe:email. An access token is live while the
// refresh token with the same suffix is.
type fakeSessions struct {
	mu         sync.Mutex
	live       map[string]bool
	revokedFor []uuid.UUID
	issued     []adapter.TokenSubject
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{live: make(map[string]bool)}
}

func (s *fakeSessions) Issue(_ context.Context, subject adapter.TokenSubject) (*adapter.IssuedTokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued = append(s.issued, subject)
	suffix := strings.Join([]string{
		subject.UserID.String(),
		strconv.Itoa(len(s.issued)),
		strconv.FormatBool(subject.RememberMe),
		subject.Email,
	}, ":")
	refresh := "refresh:" + suffix
	s.live[refresh] = true
	return &adapter.IssuedTokens{
		AccessToken:      "access:" + suffix,
		RefreshToken:     refresh,
		AccessExpiresAt:  time.Now().Add(15 * time.Minute),
		RefreshExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}, nil
}

func parseFakeToken(token, kind string) (*adapter.TokenSubject, error) {
	parts := strings.SplitN(token, ":", 5)
	if len(parts) != 5 || parts[0] != kind {
		return nil, adapter.ErrTokenRejected
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, adapter.ErrTokenRejected
	}
	return &adapter.TokenSubject{UserID: id, RememberMe: parts[3] == "true", Email: parts[4]}, nil
}

func (s *fakeSessions) VerifyAccess(_ context.Context, token string) (*adapter.TokenSubject, error) {
	subject, err := parseFakeToken(token, "access")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live[pairedRefresh(token)] {
		return nil, adapter.ErrTokenRejected
	}
	return subject, nil
}

func (s *fakeSessions) EndSession(_ context.Context, token string) error {
	if _, err := parseFakeToken(token, "access"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, pairedRefresh(token))
	return nil
}

func pairedRefresh(accessToken string) string {
	return "refresh:" + strings.TrimPrefix(accessToken, "access:")
}

func (s *fakeSessions) Rotate(ctx context.Context, token string) (*adapter.TokenSubject, *adapter.IssuedTokens, error) {
	subject, err := parseFakeToken(token, "refresh")
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	live := s.live[token]
	delete(s.live, token)
	s.mu.Unlock()
	if !live {
		return nil, nil, adapter.ErrTokenRejected
	}
	issued, err := s.Issue(ctx, *subject)
	return subject, issued, err
}

func (s *fakeSessions) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, token)
	return nil
}

func (s *fakeSessions) RevokeAll(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revokedFor = append(s.revokedFor, userID)
	for token := range s.live {
		if strings.HasPrefix(token, "refresh:"+userID.String()) {
			delete(s.live, token)
		}
	}
	return nil
}

// fakeResets hands out "reset-<userID>" so tests can predict the link.
type fakeResets struct {
	grants   map[string]*adapter.ResetGrant
	redeemed map[string]bool
}

func newFakeResets() *fakeResets {
	return &fakeResets{
		grants:   make(map[string]*adapter.ResetGrant),
		redeemed: make(map[string]bool),
	}
}

func (r *fakeResets) Grant(_ context.Context, userID uuid.UUID, email string) (*adapter.ResetGrant, error) {
	g := &adapter.ResetGrant{
		Token:     "reset-" + userID.String(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: time.Now().Add(r.Validity()),
	}
	r.grants[g.Token] = g
	delete(r.redeemed, g.Token)
	return g, nil
}

func (r *fakeResets) Lookup(_ context.Context, token string) (*adapter.ResetGrant, error) {
	g, ok := r.grants[token]
	if !ok || r.redeemed[token] {
		return nil, adapter.ErrTokenRejected
	}
	return g, nil
}

func (r *fakeResets) Redeem(_ context.Context, token string) error {
	if _, ok := r.grants[token]; !ok || r.redeemed[token] {
		return adapter.ErrTokenRejected
	}
	r.redeemed[token] = true
	return nil
}

func (r *fakeResets) Validity() time.Duration { return time.Hour }

type fakeEmails struct {
	resets   []adapter.PasswordResetEmail
	welcomes []adapter.WelcomeEmail
	err      error
}

func (e *fakeEmails) QueuePasswordReset(_ context.Context, email adapter.PasswordResetEmail) error {
	if e.err != nil {
		return e.err
	}
	e.resets = append(e.resets, email)
	return nil
}

func (e *fakeEmails) QueueWelcome(_ context.Context, email adapter.WelcomeEmail) error {
	if e.err != nil {
		return e.err
	}
	e.welcomes = append(e.welcomes, email)
	return nil
}

type fakeMetrics struct {
	auth []string
}

func (m *fakeMetrics) StrengthChecked(string)       {}
func (m *fakeMetrics) EmailDelivery(string, string) {}

func (m *fakeMetrics) AuthRequest(operation, outcome string) {
	m.auth = append(m.auth, operation+"="+outcome)
}

type fixture struct {
	users    *fakeUserRepo
	sessions *fakeSessions
	resets   *fakeResets
	emails   *fakeEmails
	metrics  *fakeMetrics
	ports    Ports
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{
		users:    newFakeUserRepo(),
		sessions: newFakeSessions(),
		resets:   newFakeResets(),
		emails:   &fakeEmails{},
		metrics:  &fakeMetrics{},
	}
	f.ports = Ports{
		Users:      f.users,
		Passwords:  fakeHasher{},
		Sessions:   f.sessions,
		Resets:     f.resets,
		Emails:     f.emails,
		AppBaseURL: "http://localhost:8080",
	}
	f.service = NewService(f.ports, f.metrics)
	return f
}
