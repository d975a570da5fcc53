package psswd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHash(t *testing.T) {
	hasher := NewBcrypt(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewBcrypt(bcrypt.MinCost)

	hash, err := hasher.HashPassword("payment-pin")
	require.NoError(t, err)
	assert.NotEqual(t, "payment-pin", hash)

	assert.True(t, hasher.ComparePassword("payment-pin", hash))
	assert.False(t, hasher.ComparePassword("wrong", hash))
}
