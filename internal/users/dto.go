package users

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
)

// Profile is the public customer projection shown next to carts and orders.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	PhoneNumber    *string   `json:"phoneNumber,omitempty"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
}

func ProfileFromModel(u models.User) Profile {
	return Profile{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		PhoneNumber:    u.PhoneNumber,
		ProfilePicture: u.ProfilePicture,
	}
}
