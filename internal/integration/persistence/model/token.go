package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel is an issued refresh token. Only the SHA-256 of the token is stored.
type RefreshTokenModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TokenHash  string     `gorm:"type:char(64);uniqueIndex;not null"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	RememberMe bool       `gorm:"not null;default:false"`
	RevokedAt  *time.Time `gorm:"index"`
	ExpiresAt  time.Time  `gorm:"index;not null"`
	CreatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for the RefreshTokenModel.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// Active reports whether the token can still be exchanged at now.
func (m *RefreshTokenModel) Active(now time.Time) bool {
	return m.RevokedAt == nil && now.Before(m.ExpiresAt)
}

// PasswordResetTokenModel is an outstanding reset grant, keyed by token hash.
type PasswordResetTokenModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TokenHash  string    `gorm:"type:char(64);uniqueIndex;not null"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Email      string    `gorm:"type:varchar(255);not null"`
	RedeemedAt *time.Time
	ExpiresAt  time.Time `gorm:"index;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the PasswordResetTokenModel.
func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}
