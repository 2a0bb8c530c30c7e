// Package valueobject contains domain value objects for the AuthSecure system.
package valueobject

import "unicode/utf8"

// MinStrengthLength is the length at which a password satisfies the length rule.
const MinStrengthLength = 8

// StrengthTier is the presentation bucket derived from a strength score.
type StrengthTier int

const (
	TierEmpty StrengthTier = iota
	TierVeryWeak
	TierWeak
	TierMedium
	TierStrong
	TierVeryStrong
)

// String returns the machine-readable name of the tier.
func (t StrengthTier) String() string {
	switch t {
	case TierVeryWeak:
		return "very_weak"
	case TierWeak:
		return "weak"
	case TierMedium:
		return "medium"
	case TierStrong:
		return "strong"
	case TierVeryStrong:
		return "very_strong"
	default:
		return "empty"
	}
}

// Label returns the human-readable name of the tier. Empty has no label.
func (t StrengthTier) Label() string {
	switch t {
	case TierVeryWeak:
		return "Very Weak"
	case TierWeak:
		return "Weak"
	case TierMedium:
		return "Medium"
	case TierStrong:
		return "Strong"
	case TierVeryStrong:
		return "Very Strong"
	default:
		return ""
	}
}

// StrengthRule identifies one of the five scoring rules.
type StrengthRule uint8

const (
	RuleLength StrengthRule = 1 << iota
	RuleLowercase
	RuleUppercase
	RuleDigit
	RuleSymbol
)

// AllStrengthRules lists the rules in evaluation order.
var AllStrengthRules = []StrengthRule{RuleLength, RuleLowercase, RuleUppercase, RuleDigit, RuleSymbol}

// String returns the rule name.
func (r StrengthRule) String() string {
	switch r {
	case RuleLength:
		return "length"
	case RuleLowercase:
		return "lowercase"
	case RuleUppercase:
		return "uppercase"
	case RuleDigit:
		return "digit"
	case RuleSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// StrengthRules is the set of rules a password satisfied.
type StrengthRules uint8

// Has reports whether rule is in the set.
func (s StrengthRules) Has(rule StrengthRule) bool {
	return uint8(s)&uint8(rule) != 0
}

// Missing returns the rules not in the set, in evaluation order.
func (s StrengthRules) Missing() []StrengthRule {
	var missing []StrengthRule
	for _, rule := range AllStrengthRules {
		if !s.Has(rule) {
			missing = append(missing, rule)
		}
	}
	return missing
}

// StrengthLevel is the result of classifying a password.
// Percent is always Score*20.
type StrengthLevel struct {
	Label   string
	Score   int
	Percent int
	Tier    StrengthTier
	Rules   StrengthRules
}

// IsEmpty reports whether the level represents an empty password.
func (l StrengthLevel) IsEmpty() bool {
	return l.Tier == TierEmpty
}

// ClassifyPassword scores a password against the five strength rules.
// Character classes are ASCII-only: any rune outside A-Z, a-z and 0-9,
// including non-ASCII letters, counts toward the symbol rule.
func ClassifyPassword(password string) StrengthLevel {
	if password == "" {
		return StrengthLevel{Tier: TierEmpty}
	}

	var rules StrengthRules
	if utf8.RuneCountInString(password) >= MinStrengthLength {
		rules |= StrengthRules(RuleLength)
	}
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			rules |= StrengthRules(RuleLowercase)
		case r >= 'A' && r <= 'Z':
			rules |= StrengthRules(RuleUppercase)
		case r >= '0' && r <= '9':
			rules |= StrengthRules(RuleDigit)
		default:
			rules |= StrengthRules(RuleSymbol)
		}
	}

	score := 0
	for _, rule := range AllStrengthRules {
		if rules.Has(rule) {
			score++
		}
	}

	tier := tierForScore(score)
	return StrengthLevel{
		Label:   tier.Label(),
		Score:   score,
		Percent: score * 20,
		Tier:    tier,
		Rules:   rules,
	}
}

// tierForScore maps a score to its tier. Scores 0 and 1 share a tier.
func tierForScore(score int) StrengthTier {
	switch {
	case score <= 1:
		return TierVeryWeak
	case score == 2:
		return TierWeak
	case score == 3:
		return TierMedium
	case score == 4:
		return TierStrong
	default:
		return TierVeryStrong
	}
}
