// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/valueobject"
)

const (
	DefaultBcryptCost        = 12
	DefaultMinPasswordLength = 8

	// MaxPasswordBytes is the most bcrypt reads. Longer input is rejected
	// instead of silently truncated.
	MaxPasswordBytes = 72
)

// PasswordPolicy is the minimum a new password must meet.
type PasswordPolicy struct {
	// MinLength counts characters, not bytes.
	MinLength int
	// MinScore is the lowest accepted strength score. Zero disables the check.
	MinScore int
}

type bcryptHasher struct {
	cost   int
	policy PasswordPolicy
}

// NewBcryptHasher returns a bcrypt PasswordHasher. A cost outside bcrypt's
// range falls back to DefaultBcryptCost.
func NewBcryptHasher(cost int, policy PasswordPolicy) adapter.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	if policy.MinLength <= 0 {
		policy.MinLength = DefaultMinPasswordLength
	}
	return &bcryptHasher{cost: cost, policy: policy}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptHasher) Matches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (h *bcryptHasher) CheckPolicy(plain string) error {
	if len(plain) > MaxPasswordBytes {
		return fmt.Errorf("password is %d bytes, at most %d are allowed", len(plain), MaxPasswordBytes)
	}
	if n := utf8.RuneCountInString(plain); n < h.policy.MinLength {
		return fmt.Errorf("password has %d characters, needs %d", n, h.policy.MinLength)
	}
	if h.policy.MinScore == 0 {
		return nil
	}
	if level := valueobject.ClassifyPassword(plain); level.Score < h.policy.MinScore {
		return fmt.Errorf("password strength %q is below the required score %d", level.Label, h.policy.MinScore)
	}
	return nil
}
