package adapters

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/integration/persistence"
)

// DefaultResetTokenValidity is how long a reset link works when unset.
const DefaultResetTokenValidity = time.Hour

const resetTokenBytes = 32

type resetTokens struct {
	store    persistence.ResetTokenStore
	validity time.Duration
	now      func() time.Time
}

// NewResetTokens creates ResetTokens over store. A non-positive validity
// uses DefaultResetTokenValidity.
func NewResetTokens(store persistence.ResetTokenStore, validity time.Duration) adapter.ResetTokens {
	if validity <= 0 {
		validity = DefaultResetTokenValidity
	}
	return &resetTokens{
		store:    store,
		validity: validity,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *resetTokens) Grant(ctx context.Context, userID uuid.UUID, email string) (*adapter.ResetGrant, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expiresAt := r.now().Add(r.validity)

	if err := r.store.Grant(ctx, token, userID, email, expiresAt); err != nil {
		return nil, fmt.Errorf("store reset token: %w", err)
	}
	return &adapter.ResetGrant{
		Token:     token,
		UserID:    userID,
		Email:     email,
		ExpiresAt: expiresAt,
	}, nil
}

func (r *resetTokens) Lookup(ctx context.Context, token string) (*adapter.ResetGrant, error) {
	row, err := r.store.Find(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find reset token: %w", err)
	}
	if row == nil {
		return nil, adapter.ErrTokenRejected
	}
	return &adapter.ResetGrant{
		Token:     token,
		UserID:    row.UserID,
		Email:     row.Email,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *resetTokens) Redeem(ctx context.Context, token string) error {
	ok, err := r.store.Redeem(ctx, token)
	if err != nil {
		return fmt.Errorf("redeem reset token: %w", err)
	}
	if !ok {
		return adapter.ErrTokenRejected
	}
	return nil
}

func (r *resetTokens) Validity() time.Duration {
	return r.validity
}
