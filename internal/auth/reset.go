package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/fixlyhq/fixly-api/internal/models"
	"github.com/fixlyhq/fixly-api/internal/store"
)

// ErrInvalidResetToken covers every consume failure: unknown token, elapsed
// expiry, or a token already used. Callers must not distinguish between
// them.
var ErrInvalidResetToken = errors.New("auth: invalid or expired reset token")

// resetTokenBytes is the entropy of a raw recovery token.
const resetTokenBytes = 32

// ResetManager issues and consumes single-use password-recovery tokens for
// client accounts. Only the sha256 of a token is ever persisted; the raw
// token exists only in the reset email.
type ResetManager struct {
	Clients store.ClientStore
	Hasher  PasswordHasher
	TTL     time.Duration

	// now is swappable for tests.
	now func() time.Time
}

func NewResetManager(clients store.ClientStore, hasher PasswordHasher, ttl time.Duration) *ResetManager {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ResetManager{Clients: clients, Hasher: hasher, TTL: ttl, now: time.Now}
}

// HashResetToken is the stored representation of a raw token.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Request generates a fresh recovery token for the account registered under
// email and persists its hash with an absolute expiry. The raw token is
// returned for one-time delivery and is never stored or logged. A missing
// account surfaces as store.ErrNotFound; the caller decides how much of
// that to reveal.
func (m *ResetManager) Request(ctx context.Context, email string) (string, *models.Client, error) {
	client, err := m.Clients.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, err
	}
	raw := hex.EncodeToString(buf)

	expire := m.now().Add(m.TTL).UnixMilli()
	if err := m.Clients.SetResetToken(ctx, client.ID, HashResetToken(raw), expire); err != nil {
		return "", nil, err
	}
	return raw, client, nil
}

// Consume validates a raw token and, on match, replaces the account's
// password and clears both recovery fields in a single conditional update.
// The store enforces expiry inside the match predicate, so an elapsed token
// behaves exactly like an unknown one, and two racing calls on the same
// token produce exactly one success.
func (m *ResetManager) Consume(ctx context.Context, rawToken, newPassword string) (*models.Client, error) {
	hash, err := m.Hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	client, err := m.Clients.ConsumeResetToken(ctx, HashResetToken(rawToken), m.now().UnixMilli(), hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}
	return client, nil
}
