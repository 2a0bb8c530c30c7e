package adapter

// PasswordHasher stores passwords one-way and holds the policy new passwords
// must meet.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Matches reports whether plain is the password behind hash.
	Matches(hash, plain string) bool
	// CheckPolicy returns an error describing why plain is too weak to set.
	CheckPolicy(plain string) error
}
