package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomToken_Length(t *testing.T) {
	token, err := RandomToken(10)

	require.NoError(t, err)
	assert.Len(t, token, 10)
}

func TestRandomToken_Alphanumeric(t *testing.T) {
	token, err := RandomToken(64)
	require.NoError(t, err)

	for _, r := range token {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.True(t, isAlnum, "Token should only contain alphanumeric characters, got %q", r)
	}
}

func TestRandomToken_CoversFullAlphabet(t *testing.T) {
	// Roughly 6400 characters. With uniform sampling the chance of any
	// of the 62 characters never appearing is negligible.
	seen := make(map[rune]bool)
	for i := 0; i < 200; i++ {
		token, err := RandomToken(32)
		require.NoError(t, err)
		for _, r := range token {
			seen[r] = true
		}
	}

	assert.Len(t, seen, len(tokenAlphabet))
}

func TestRandomToken_Unique(t *testing.T) {
	token1, err := RandomToken(10)
	require.NoError(t, err)

	token2, err := RandomToken(10)
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
}
