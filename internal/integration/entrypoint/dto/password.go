package dto

import (
	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/valueobject"
)

// PasswordStrengthRequest represents the request body for a strength check.
// An empty password is valid and yields the empty level.
type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

// PasswordStrengthResponse represents the result of a strength check.
type PasswordStrengthResponse struct {
	Score     int               `json:"score"`
	Percent   int               `json:"percent"`
	Label     string            `json:"label"`
	Tier      string            `json:"tier"`
	Satisfied []string          `json:"satisfied"`
	Missing   []string          `json:"missing"`
	Meter     adapter.MeterView `json:"meter"`
}

// ToPasswordStrengthResponse converts a strength level and its meter to a response DTO.
func ToPasswordStrengthResponse(level valueobject.StrengthLevel, meter adapter.MeterView) PasswordStrengthResponse {
	satisfied := make([]string, 0, len(valueobject.AllStrengthRules))
	missing := make([]string, 0, len(valueobject.AllStrengthRules))
	for _, rule := range valueobject.AllStrengthRules {
		if level.Rules.Has(rule) {
			satisfied = append(satisfied, rule.String())
		} else {
			missing = append(missing, rule.String())
		}
	}

	return PasswordStrengthResponse{
		Score:     level.Score,
		Percent:   level.Percent,
		Label:     level.Label,
		Tier:      level.Tier.String(),
		Satisfied: satisfied,
		Missing:   missing,
		Meter:     meter,
	}
}
