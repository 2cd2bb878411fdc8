package auth

import "golang.org/x/crypto/bcrypt"

// MinHashCost is the lowest bcrypt cost we will hash with. Costs below this
// are rejected at construction rather than silently accepted.
const MinHashCost = 10

// PasswordHasher wraps bcrypt with a process-wide cost factor.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher clamps the cost to MinHashCost.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < MinHashCost {
		cost = MinHashCost
	}
	return PasswordHasher{cost: cost}
}

// Hash produces the salted one-way digest of a password. A failure here is
// fatal to the request; there is no fallback.
func (h PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

// Verify compares a plaintext password with a stored digest using bcrypt's
// own comparison, never a manual byte compare of secrets.
func (h PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
