package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	auth := NewAuthService()

	hash, err := auth.HashPassword("password1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash")
	assert.NotContains(t, hash, "password1")

	assert.True(t, auth.CheckPassword(hash, "password1"))
	assert.False(t, auth.CheckPassword(hash, "password2"))
}
