package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsAdmin(t *testing.T) {
	t.Run("should return false for profile users", func(t *testing.T) {
		user := User{Role: Profile}

		assert.False(t, user.IsAdmin())
	})

	t.Run("should return true for admin users", func(t *testing.T) {
		user := User{Role: Admin}

		assert.True(t, user.IsAdmin())
	})
}

func TestUserRole_OrDefault(t *testing.T) {
	assert.Equal(t, Profile, UserRole("").OrDefault())
	assert.Equal(t, Admin, Admin.OrDefault())
	assert.Equal(t, Profile, Profile.OrDefault())
	assert.Equal(t, Profile, UserRole("superuser").OrDefault())
}
