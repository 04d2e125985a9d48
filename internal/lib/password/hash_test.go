package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resellerhub/resellerhub/internal/lib/password"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := password.GetHash("rahasia123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "rahasia123", hash)

	assert.NoError(t, password.CompareHash(hash, "rahasia123"))
	assert.Error(t, password.CompareHash(hash, "salah123"))
}

func TestGetHash_DifferentSalts(t *testing.T) {
	first, err := password.GetHash("rahasia123")
	require.NoError(t, err)
	second, err := password.GetHash("rahasia123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestOAuthSentinel_NeverMatches(t *testing.T) {
	// Сентинел не является bcrypt-хешем, вход по паролю невозможен.
	assert.Error(t, password.CompareHash(password.OAuthSentinel, "GOOGLE_OAUTH"))
	assert.Error(t, password.CompareHash(password.OAuthSentinel, ""))
	assert.Error(t, password.CompareHash(password.OAuthSentinel, "anything"))
}
