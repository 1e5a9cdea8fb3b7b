package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	Admin   UserRole = "admin"
	Profile UserRole = "profile"
)

type User struct {
	ID                int
	UUID              uuid.UUID
	Name              string `validate:"max=100"`
	Email             string `validate:"required,email,max=255"`
	EncryptedPassword string `validate:"required"`
	Role              UserRole
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}

// OrDefault maps anything other than a known role to Profile.
func (r UserRole) OrDefault() UserRole {
	switch r {
	case Admin, Profile:
		return r
	}

	return Profile
}
