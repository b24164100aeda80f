package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, Verify("secret1", hash))
	assert.False(t, Verify("secret2", hash))
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, Verify("secret1", "not-a-bcrypt-hash"))
	assert.False(t, Verify("secret1", ""))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("secret1")
	require.NoError(t, err)
	h2, err := Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
