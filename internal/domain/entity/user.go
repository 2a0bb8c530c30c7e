// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents an AuthSecure account holder.
type User struct {
	ID              uuid.UUID
	Email           string
	Name            string
	PasswordHash    string
	TermsAcceptedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser creates a new User with a fresh ID. The terms are accepted and the
// account created at the same instant now. The email is stored normalized.
func NewUser(email, name, passwordHash string, now time.Time) *User {
	now = now.UTC()
	return &User{
		ID:              uuid.New(),
		Email:           NormalizeEmail(email),
		Name:            strings.TrimSpace(name),
		PasswordHash:    passwordHash,
		TermsAcceptedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
