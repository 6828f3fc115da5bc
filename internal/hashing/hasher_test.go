package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := h.Verify(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(hash, "wrong horse")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SaltsEachHash(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	assert.NotEqual(t, a, b)
}

func TestHasher_InvalidHash(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Verify("not-a-bcrypt-hash", "pw")
	assert.ErrorIs(t, err, ErrInvalidHash)
	assert.False(t, h.VerifyDummy("anything"))
}

func TestNewHasher_RejectsBadCost(t *testing.T) {
	_, err := NewHasher(64)
	assert.Error(t, err)
}
