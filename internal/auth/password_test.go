package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, salt, err := hashPassword("s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEmpty(t, salt)

	ok, err := verifyPassword("s3cret", salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("wrong", salt, hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	h1, s1, err := hashPassword("same")
	require.NoError(t, err)
	h2, s2, err := hashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordBadEncoding(t *testing.T) {
	_, salt, err := hashPassword("x")
	require.NoError(t, err)

	_, err = verifyPassword("x", "%%%", "aGFzaA==")
	assert.Error(t, err)
	_, err = verifyPassword("x", salt, "%%%")
	assert.Error(t, err)
}
