package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	hashed, err := h.Hash("1")
	require.NoError(t, err)
	assert.True(t, IsHash(hashed))
	assert.NoError(t, h.Compare(hashed, "1"))
	assert.Error(t, h.Compare(hashed, "2"))

	_, err = h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
	assert.False(t, IsHash("1"))
}

func TestBcryptHasherLongSecrets(t *testing.T) {
	h := NewBcryptHasher(4)
	long := strings.Repeat("a", 80)

	hashed, err := h.Hash(long)
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hashed, long))

	// Secrets sharing the first 72 bytes must still differ.
	assert.Error(t, h.Compare(hashed, strings.Repeat("a", 72)+"bbbbbbbb"))
	assert.Error(t, h.Compare(hashed, strings.Repeat("a", 72)))
}
