package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("12345678", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "12345678", hashed)
	assert.NoError(t, ComparePassword("12345678", hashed))
	assert.Error(t, ComparePassword("wrong-password", hashed))
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hashed, err := HashPassword("12345678", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)

	assert.Equal(t, bcrypt.DefaultCost, cost)
}
