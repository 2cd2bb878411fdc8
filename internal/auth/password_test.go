package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	hasher := NewPasswordHasher(MinHashCost)

	digest, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", digest)

	assert.True(t, hasher.Verify("correct horse battery staple", digest))
	assert.False(t, hasher.Verify("wrong password", digest))
	assert.False(t, hasher.Verify("", digest))
}

func TestPasswordHasherSaltsEveryDigest(t *testing.T) {
	hasher := NewPasswordHasher(MinHashCost)

	first, err := hasher.Hash("hunter2hunter2")
	require.NoError(t, err)
	second, err := hasher.Hash("hunter2hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("hunter2hunter2", first))
	assert.True(t, hasher.Verify("hunter2hunter2", second))
}

func TestPasswordHasherClampsCost(t *testing.T) {
	hasher := NewPasswordHasher(4)

	digest, err := hasher.Hash("some password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, MinHashCost, cost)
}
