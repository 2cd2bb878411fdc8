package auth

import (
	"context"
	"errors"

	"github.com/fixlyhq/fixly-api/internal/models"
	"github.com/fixlyhq/fixly-api/internal/store"
)

// Locator resolves an email to exactly one account across the three
// collections. The probe order is fixed — clients, then providers, then
// admins — and the first match wins. Existing deployments depend on this
// ordering when the same email exists in more than one collection, so it
// must not change.
type Locator struct {
	Clients   store.ClientStore
	Providers store.ProviderStore
	Admins    store.AdminStore
}

// FindByEmail returns the matching account tagged with the collection it
// came from, or store.ErrNotFound when no collection has a match. Callers
// on the login path map not-found to the same failure as a bad password.
func (l *Locator) FindByEmail(ctx context.Context, email string) (*models.AccountRef, error) {
	if c, err := l.Clients.FindByEmail(ctx, email); err == nil {
		return &models.AccountRef{
			ID:           c.ID,
			Email:        c.Email,
			FullName:     c.FullName,
			PhoneNumber:  c.PhoneNumber,
			PasswordHash: c.Password,
			Role:         models.RoleClient,
		}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if p, err := l.Providers.FindByEmail(ctx, email); err == nil {
		return &models.AccountRef{
			ID:           p.ID,
			Email:        p.Email,
			FullName:     p.FullName(),
			PhoneNumber:  p.Phone,
			PasswordHash: p.Password,
			Role:         models.RoleProvider,
		}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if a, err := l.Admins.FindByEmail(ctx, email); err == nil {
		return &models.AccountRef{
			ID:           a.ID,
			Email:        a.Email,
			FullName:     a.FullName,
			PhoneNumber:  a.PhoneNumber,
			PasswordHash: a.Password,
			Role:         models.RoleAdmin,
		}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return nil, store.ErrNotFound
}
