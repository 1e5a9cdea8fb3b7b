package factory

import (
	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"itemtracker/internal/core/domain"
)

const DefaultPassword = "12345678"

// NewUser builds a profile user whose password is DefaultPassword unless
// customData overrides it. fabricator only applies the first override map,
// so all of customData is merged into one.
func NewUser(customData ...map[string]any) domain.User {
	instance := fab.New(domain.User{})

	overrides := make(map[string]any)

	for _, data := range customData {
		for key, value := range data {
			overrides[key] = value
		}
	}

	if _, exists := overrides["EncryptedPassword"]; !exists {
		encryptedPassword, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		overrides["EncryptedPassword"] = string(encryptedPassword)
	}

	_, hasRole := overrides["Role"]

	user := instance.Build(overrides)
	user.ID = 0
	user.UUID = uuid.New()

	if !hasRole {
		user.Role = domain.Profile
	}

	now := domain.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	return user
}
