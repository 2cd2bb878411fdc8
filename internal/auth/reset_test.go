package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixlyhq/fixly-api/internal/models"
	"github.com/fixlyhq/fixly-api/internal/store"
)

func newResetManager(t *testing.T) (*ResetManager, *fakeClientStore) {
	t.Helper()
	clients := newFakeClientStore()
	return NewResetManager(clients, NewPasswordHasher(MinHashCost), 15*time.Minute), clients
}

func seedClient(t *testing.T, clients *fakeClientStore, email string) *models.Client {
	t.Helper()
	c := &models.Client{FullName: "Test Client", Email: email, Password: "old-hash"}
	require.NoError(t, clients.Insert(context.Background(), c))
	return c
}

func TestResetRequestStoresOnlyTheHash(t *testing.T) {
	ctx := context.Background()
	manager, clients := newResetManager(t)
	seedClient(t, clients, "cara@example.com")

	raw, client, err := manager.Request(ctx, "cara@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, "cara@example.com", client.Email)

	stored, err := clients.FindByEmail(ctx, "cara@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, raw, stored.ResetPasswordToken)
	assert.Equal(t, HashResetToken(raw), stored.ResetPasswordToken)
	assert.Greater(t, stored.ResetPasswordExpire, time.Now().UnixMilli())
}

func TestResetRequestUnknownEmail(t *testing.T) {
	manager, _ := newResetManager(t)

	_, _, err := manager.Request(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResetRoundTrip(t *testing.T) {
	ctx := context.Background()
	manager, clients := newResetManager(t)
	seedClient(t, clients, "cara@example.com")

	raw, _, err := manager.Request(ctx, "cara@example.com")
	require.NoError(t, err)

	client, err := manager.Consume(ctx, raw, "brand-new-password")
	require.NoError(t, err)

	// New password installed, recovery fields cleared.
	hasher := NewPasswordHasher(MinHashCost)
	assert.True(t, hasher.Verify("brand-new-password", client.Password))
	stored, err := clients.FindByEmail(ctx, "cara@example.com")
	require.NoError(t, err)
	assert.Empty(t, stored.ResetPasswordToken)
	assert.Zero(t, stored.ResetPasswordExpire)
}

func TestResetTokenSingleUse(t *testing.T) {
	ctx := context.Background()
	manager, clients := newResetManager(t)
	seedClient(t, clients, "cara@example.com")

	raw, _, err := manager.Request(ctx, "cara@example.com")
	require.NoError(t, err)

	_, err = manager.Consume(ctx, raw, "first-new-password")
	require.NoError(t, err)

	_, err = manager.Consume(ctx, raw, "second-new-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetTokenExpiry(t *testing.T) {
	ctx := context.Background()
	manager, clients := newResetManager(t)
	seedClient(t, clients, "cara@example.com")

	raw, _, err := manager.Request(ctx, "cara@example.com")
	require.NoError(t, err)

	// Jump past the window. A matching hash with elapsed expiry must behave
	// exactly like an unknown token.
	manager.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	_, err = manager.Consume(ctx, raw, "too-late-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	stored, findErr := clients.FindByEmail(ctx, "cara@example.com")
	require.NoError(t, findErr)
	assert.Equal(t, "old-hash", stored.Password)
}

func TestResetInvalidToken(t *testing.T) {
	manager, clients := newResetManager(t)
	seedClient(t, clients, "cara@example.com")

	_, err := manager.Consume(context.Background(), "completely-made-up", "whatever-pass")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetConcurrentConsumeSingleWinner(t *testing.T) {
	ctx := context.Background()
	manager, clients := newResetManager(t)
	seedClient(t, clients, "cara@example.com")

	raw, _, err := manager.Request(ctx, "cara@example.com")
	require.NoError(t, err)

	const racers = 8
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Consume(ctx, raw, "raced-password")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrInvalidResetToken)
		}
	}
	assert.Equal(t, 1, wins)
}
