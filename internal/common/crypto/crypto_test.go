package crypto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	assert.NoError(t, h.Compare(hash, "123456"))
	assert.ErrorIs(t, h.Compare(hash, "654321"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewBcryptHasher(99)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}

func TestUUIDGenerator_NewID(t *testing.T) {
	g := NewUUIDGenerator()

	first, err := g.NewID()
	require.NoError(t, err)
	second, err := g.NewID()
	require.NoError(t, err)

	_, parseErr := uuid.Parse(first)
	assert.NoError(t, parseErr)
	assert.NotEqual(t, first, second)
}
