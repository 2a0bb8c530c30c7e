// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/authsecure/backend/internal/domain/entity"
)

// UserModel represents the user table in the database.
type UserModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name            string    `gorm:"type:varchar(100);not null"`
	PasswordHash    string    `gorm:"type:varchar(255);not null"`
	TermsAcceptedAt time.Time `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:              m.ID,
		Email:           m.Email,
		Name:            m.Name,
		PasswordHash:    m.PasswordHash,
		TermsAcceptedAt: m.TermsAcceptedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromEntity creates a UserModel from a domain User entity.
func FromEntity(user *entity.User) *UserModel {
	return &UserModel{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		PasswordHash:    user.PasswordHash,
		TermsAcceptedAt: user.TermsAcceptedAt,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

// All returns every model, in migration order.
func All() []any {
	return []any{
		&UserModel{},
		&RefreshTokenModel{},
		&PasswordResetTokenModel{},
		&EmailOutboxModel{},
	}
}
