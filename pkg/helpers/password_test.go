package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

func TestBcryptHashAndVerify(t *testing.T) {
	h := &helpers.BcryptHasher{Cost: 4} // min cost keeps the test fast

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, h.Verify("secret123", hash))
	assert.False(t, h.Verify("secret124", hash))
	assert.False(t, h.Verify("secret123", ""))
}

func TestBcryptHashesAreSalted(t *testing.T) {
	h := &helpers.BcryptHasher{Cost: 4}
	a, err := h.Hash("secret123")
	require.NoError(t, err)
	b, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
