package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixlyhq/fixly-api/internal/models"
)

func TestTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("abc123", "provider@example.com", models.RoleProvider)
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.ID)
	assert.Equal(t, "provider@example.com", claims.Email)
	assert.Equal(t, models.RoleProvider, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-one", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenIssuer("secret-two", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("abc123", "client@example.com", models.RoleClient)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestTokenExpires(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Millisecond)
	require.NoError(t, err)

	token, err := issuer.Issue("abc123", "client@example.com", models.RoleClient)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = issuer.Validate(token)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = issuer.Validate("not.a.token")
	assert.Error(t, err)
}
