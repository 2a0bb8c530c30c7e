package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authsecure/backend/internal/integration/persistence/model"
)

// ResetTokenStore keeps single-use password reset grants.
type ResetTokenStore interface {
	// Grant stores a reset token for a user. Earlier unredeemed grants of the
	// same user are dropped so only the latest emailed link works.
	Grant(ctx context.Context, token string, userID uuid.UUID, email string, expiresAt time.Time) error

	// Find returns an unredeemed grant, or nil. Expiry is left to the caller so
	// an expired link can be reported as such.
	Find(ctx context.Context, token string) (*model.PasswordResetTokenModel, error)

	// Redeem marks the grant used. It reports false when another request
	// redeemed it first.
	Redeem(ctx context.Context, token string) (bool, error)

	// PurgeExpired removes grants that expired before cutoff, redeemed or not.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type resetTokenStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewResetTokenStore creates a ResetTokenStore backed by gorm.
func NewResetTokenStore(db *gorm.DB) ResetTokenStore {
	return &resetTokenStore{db: db, now: utcNow}
}

func (s *resetTokenStore) Grant(ctx context.Context, token string, userID uuid.UUID, email string, expiresAt time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND redeemed_at IS NULL", userID).
			Delete(&model.PasswordResetTokenModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.PasswordResetTokenModel{
			ID:        uuid.New(),
			TokenHash: HashToken(token),
			UserID:    userID,
			Email:     email,
			ExpiresAt: expiresAt.UTC(),
			CreatedAt: s.now(),
		}).Error
	})
}

func (s *resetTokenStore) Find(ctx context.Context, token string) (*model.PasswordResetTokenModel, error) {
	var row model.PasswordResetTokenModel
	err := s.db.WithContext(ctx).
		Where("token_hash = ? AND redeemed_at IS NULL", HashToken(token)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *resetTokenStore) Redeem(ctx context.Context, token string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.PasswordResetTokenModel{}).
		Where("token_hash = ? AND redeemed_at IS NULL", HashToken(token)).
		Update("redeemed_at", s.now())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *resetTokenStore) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", cutoff.UTC()).
		Delete(&model.PasswordResetTokenModel{})
	return result.RowsAffected, result.Error
}
