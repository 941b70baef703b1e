package bank_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbank/ledger-engine/bank"
)

func TestValidatePassword_LengthBounds(t *testing.T) {
	assert.Error(t, bank.ValidatePassword(""))
	assert.Error(t, bank.ValidatePassword("abc"))
	assert.NoError(t, bank.ValidatePassword("1234"))
	assert.NoError(t, bank.ValidatePassword(strings.Repeat("x", 255)))
	assert.Error(t, bank.ValidatePassword(strings.Repeat("x", 256)))
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := bank.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotContains(t, hash, "s3cret-pass")

	assert.True(t, bank.VerifyPassword("s3cret-pass", hash))
	assert.False(t, bank.VerifyPassword("wrong", hash))
	assert.False(t, bank.VerifyPassword("s3cret-pass", "not-a-hash"))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := bank.HashPassword("same-pass")
	require.NoError(t, err)
	h2, err := bank.HashPassword("same-pass")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashPassword_RejectsInvalidLength(t *testing.T) {
	_, err := bank.HashPassword("abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, bank.ErrInvalidPassword)
}
