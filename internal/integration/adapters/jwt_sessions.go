package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/integration/persistence"
)

const (
	defaultAccessTokenDuration  = 15 * time.Minute
	defaultRefreshTokenDuration = 7 * 24 * time.Hour

	rememberMeAccessTokenDuration  = 7 * 24 * time.Hour
	rememberMeRefreshTokenDuration = 30 * 24 * time.Hour

	tokenIssuer = "authsecure"
)

type tokenKind string

const (
	kindAccess  tokenKind = "access"
	kindRefresh tokenKind = "refresh"
)

// sessionClaims is the JWT payload of both halves of a session pair.
type sessionClaims struct {
	SessionID  string    `json:"sid"`
	Email      string    `json:"email"`
	Kind       tokenKind `json:"token_type"`
	RememberMe bool      `json:"remember_me,omitempty"`
	jwt.RegisteredClaims
}

// TokenDurations sets token lifetimes. Zero fields take the defaults.
type TokenDurations struct {
	Access            time.Duration
	Refresh           time.Duration
	RememberMeAccess  time.Duration
	RememberMeRefresh time.Duration
}

func (d TokenDurations) withDefaults() TokenDurations {
	if d.Access <= 0 {
		d.Access = defaultAccessTokenDuration
	}
	if d.Refresh <= 0 {
		d.Refresh = defaultRefreshTokenDuration
	}
	if d.RememberMeAccess <= 0 {
		d.RememberMeAccess = rememberMeAccessTokenDuration
	}
	if d.RememberMeRefresh <= 0 {
		d.RememberMeRefresh = rememberMeRefreshTokenDuration
	}
	return d
}

func (d TokenDurations) forSubject(rememberMe bool) (access, refresh time.Duration) {
	if rememberMe {
		return d.RememberMeAccess, d.RememberMeRefresh
	}
	return d.Access, d.Refresh
}

type jwtSessions struct {
	secret    []byte
	store     persistence.RefreshTokenStore
	durations TokenDurations
	now       func() time.Time
}

// NewJWTSessions creates SessionTokens that sign HS256 JWTs and keep the
// refresh half in store.
func NewJWTSessions(secret string, store persistence.RefreshTokenStore, durations TokenDurations) adapter.SessionTokens {
	return &jwtSessions{
		secret:    []byte(secret),
		store:     store,
		durations: durations.withDefaults(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *jwtSessions) Issue(ctx context.Context, subject adapter.TokenSubject) (*adapter.IssuedTokens, error) {
	now := s.now()
	accessTTL, refreshTTL := s.durations.forSubject(subject.RememberMe)
	subject.SessionID = uuid.New()

	access, err := s.sign(subject, kindAccess, now, accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(subject, kindRefresh, now, refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	refreshExpiry := now.Add(refreshTTL)
	if err := s.store.Record(ctx, subject.SessionID, refresh, subject.UserID, subject.RememberMe, refreshExpiry); err != nil {
		return nil, fmt.Errorf("record refresh token: %w", err)
	}

	return &adapter.IssuedTokens{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(accessTTL),
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

func (s *jwtSessions) VerifyAccess(ctx context.Context, accessToken string) (*adapter.TokenSubject, error) {
	subject, err := s.parse(accessToken, kindAccess)
	if err != nil {
		return nil, err
	}
	live, err := s.store.Live(ctx, subject.SessionID)
	if err != nil {
		return nil, fmt.Errorf("look up session: %w", err)
	}
	if !live {
		return nil, fmt.Errorf("%w: session ended", adapter.ErrTokenRejected)
	}
	return subject, nil
}

func (s *jwtSessions) EndSession(ctx context.Context, accessToken string) error {
	subject, err := s.parse(accessToken, kindAccess)
	if err != nil {
		return err
	}
	if _, err := s.store.RevokeSession(ctx, subject.SessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *jwtSessions) Rotate(ctx context.Context, refreshToken string) (*adapter.TokenSubject, *adapter.IssuedTokens, error) {
	subject, err := s.parse(refreshToken, kindRefresh)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.store.Revoke(ctx, refreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if !revoked {
		return nil, nil, adapter.ErrTokenRejected
	}

	issued, err := s.Issue(ctx, *subject)
	if err != nil {
		return nil, nil, err
	}
	return subject, issued, nil
}

func (s *jwtSessions) Revoke(ctx context.Context, refreshToken string) error {
	_, err := s.store.Revoke(ctx, refreshToken)
	return err
}

func (s *jwtSessions) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	_, err := s.store.RevokeUser(ctx, userID)
	return err
}

func (s *jwtSessions) sign(subject adapter.TokenSubject, kind tokenKind, now time.Time, ttl time.Duration) (string, error) {
	claims := sessionClaims{
		SessionID:  subject.SessionID.String(),
		Email:      subject.Email,
		Kind:       kind,
		RememberMe: subject.RememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject.UserID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parse accepts only a valid token of the wanted kind. Every failure maps
// to ErrTokenRejected so callers never branch on jwt internals.
func (s *jwtSessions) parse(raw string, want tokenKind) (*adapter.TokenSubject, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(adapter.ErrTokenRejected, err)
	}
	if claims.Kind != want {
		return nil, fmt.Errorf("%w: expected %s token", adapter.ErrTokenRejected, want)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject: %v", adapter.ErrTokenRejected, err)
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session id: %v", adapter.ErrTokenRejected, err)
	}
	return &adapter.TokenSubject{
		SessionID:  sessionID,
		UserID:     userID,
		Email:      claims.Email,
		RememberMe: claims.RememberMe,
	}, nil
}
