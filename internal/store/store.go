package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fixlyhq/fixly-api/internal/models"
)

var (
	// ErrNotFound means no record matched. It is a normal outcome, not a
	// failure: callers in the auth path map it to a generic response so an
	// attacker cannot probe which emails are registered.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateEmail means the email is already taken within the target
	// collection.
	ErrDuplicateEmail = errors.New("store: duplicate email")
)

// ClientStore persists customer accounts.
type ClientStore interface {
	Insert(ctx context.Context, c *models.Client) error
	FindByEmail(ctx context.Context, email string) (*models.Client, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)

	// SetResetToken stores the hashed recovery token and its absolute
	// expiry (epoch ms) on the account.
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expire int64) error

	// ConsumeResetToken atomically matches an account whose stored token
	// hash equals tokenHash and whose expiry is still in the future, swaps
	// in the new password hash, and clears both recovery fields. A matching
	// hash with an elapsed expiry is ErrNotFound. The single conditional
	// update is what guarantees exactly one of two racing calls wins.
	ConsumeResetToken(ctx context.Context, tokenHash string, now int64, passwordHash string) (*models.Client, error)
}

// ProviderStore persists provider accounts.
type ProviderStore interface {
	Insert(ctx context.Context, p *models.Provider) error
	FindByEmail(ctx context.Context, email string) (*models.Provider, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Provider, error)
	List(ctx context.Context) ([]models.Provider, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// AdminStore persists operator accounts.
type AdminStore interface {
	Insert(ctx context.Context, a *models.Admin) error
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}
