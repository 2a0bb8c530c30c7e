package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authsecure/backend/internal/integration/persistence/model"
)

// RefreshTokenStore tracks issued refresh tokens so they can be rotated and revoked.
type RefreshTokenStore interface {
	// Record stores a newly issued token. sessionID becomes the row id and is
	// what access tokens of the same pair carry.
	Record(ctx context.Context, sessionID uuid.UUID, token string, userID uuid.UUID, rememberMe bool, expiresAt time.Time) error

	// Lookup returns the stored token, or nil when it was never issued.
	Lookup(ctx context.Context, token string) (*model.RefreshTokenModel, error)

	// Revoke marks a live token revoked. It reports false when the token was
	// unknown, expired or already revoked, which makes it safe as a rotation guard.
	Revoke(ctx context.Context, token string) (bool, error)

	// Live reports whether the session is neither revoked nor expired.
	Live(ctx context.Context, sessionID uuid.UUID) (bool, error)

	// RevokeSession revokes a session by id. It reports false when the
	// session was unknown or no longer live.
	RevokeSession(ctx context.Context, sessionID uuid.UUID) (bool, error)

	// RevokeUser revokes every live token of a user.
	RevokeUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// PurgeExpired removes tokens that expired before cutoff.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type refreshTokenStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRefreshTokenStore creates a RefreshTokenStore backed by gorm.
func NewRefreshTokenStore(db *gorm.DB) RefreshTokenStore {
	return &refreshTokenStore{db: db, now: utcNow}
}

func (s *refreshTokenStore) Record(ctx context.Context, sessionID uuid.UUID, token string, userID uuid.UUID, rememberMe bool, expiresAt time.Time) error {
	return s.db.WithContext(ctx).Create(&model.RefreshTokenModel{
		ID:         sessionID,
		TokenHash:  HashToken(token),
		UserID:     userID,
		RememberMe: rememberMe,
		ExpiresAt:  expiresAt.UTC(),
		CreatedAt:  s.now(),
	}).Error
}

func (s *refreshTokenStore) Lookup(ctx context.Context, token string) (*model.RefreshTokenModel, error) {
	var row model.RefreshTokenModel
	err := s.db.WithContext(ctx).Where("token_hash = ?", HashToken(token)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *refreshTokenStore) Revoke(ctx context.Context, token string) (bool, error) {
	now := s.now()
	result := s.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", HashToken(token), now).
		Update("revoked_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *refreshTokenStore) Live(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, s.now()).
		Count(&n).Error
	return n > 0, err
}

func (s *refreshTokenStore) RevokeSession(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	now := s.now()
	result := s.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, now).
		Update("revoked_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *refreshTokenStore) RevokeUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", s.now())
	return result.RowsAffected, result.Error
}

func (s *refreshTokenStore) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", cutoff.UTC()).
		Delete(&model.RefreshTokenModel{})
	return result.RowsAffected, result.Error
}

func utcNow() time.Time {
	return time.Now().UTC()
}
