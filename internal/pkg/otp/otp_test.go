package otp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewCode_Format(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 200; i++ {
		c, err := NewCode()
		require.NoError(t, err)
		assert.Regexp(t, re, c)
	}
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.True(t, h.Compare(hash, "123456"))
	assert.False(t, h.Compare(hash, "654321"))
}

func TestBcryptHasher_DummyNeverMatchesCommonCodes(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, h.DummyHash())
	assert.False(t, h.Compare(h.DummyHash(), "000000"))
	assert.False(t, h.Compare("", "000000"))
}

func TestNewBcryptHasher_BadCost(t *testing.T) {
	_, err := NewBcryptHasher(64)
	assert.Error(t, err)
}
