package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrTokenRejected is returned for a token that is malformed, expired, of the
// wrong kind or no longer live.
var ErrTokenRejected = errors.New("token rejected")

// TokenSubject is who a session token was issued to. SessionID names the
// session both halves of a pair belong to.
type TokenSubject struct {
	SessionID  uuid.UUID
	UserID     uuid.UUID
	Email      string
	RememberMe bool
}

// IssuedTokens is a freshly minted access and refresh pair.
type IssuedTokens struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// SessionTokens issues the bearer tokens behind a session and tracks their refresh half.
type SessionTokens interface {
	// Issue mints a pair for subject. RememberMe selects the longer lifetimes.
	Issue(ctx context.Context, subject TokenSubject) (*IssuedTokens, error)

	// VerifyAccess checks an access token and returns its subject. The token
	// is rejected once its session was revoked, rotated or expired.
	VerifyAccess(ctx context.Context, accessToken string) (*TokenSubject, error)

	// EndSession revokes the session an access token belongs to.
	EndSession(ctx context.Context, accessToken string) error

	// Rotate exchanges a live refresh token for a new pair with the same subject.
	// The presented token stops working, so a replay fails with ErrTokenRejected.
	Rotate(ctx context.Context, refreshToken string) (*TokenSubject, *IssuedTokens, error)

	// Revoke ends the session behind a refresh token. Unknown tokens are ignored.
	Revoke(ctx context.Context, refreshToken string) error

	// RevokeAll ends every session of a user.
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// ResetGrant is an outstanding password reset token.
type ResetGrant struct {
	Token     string
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the grant can no longer be used at now.
func (g *ResetGrant) Expired(now time.Time) bool {
	return !now.Before(g.ExpiresAt)
}

// ResetTokens issues single-use password reset grants.
type ResetTokens interface {
	// Grant issues a new token for a user, superseding any earlier one.
	Grant(ctx context.Context, userID uuid.UUID, email string) (*ResetGrant, error)

	// Lookup returns an unredeemed grant, expired or not, or ErrTokenRejected.
	Lookup(ctx context.Context, token string) (*ResetGrant, error)

	// Redeem consumes a grant. Only the first call for a token succeeds.
	Redeem(ctx context.Context, token string) error

	// Validity is how long a new grant stays usable.
	Validity() time.Duration
}
