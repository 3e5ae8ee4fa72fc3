package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("password1")
	require.NoError(t, err)
	b, err := HashPassword("password1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("not-a-hash", "password1"))
}
