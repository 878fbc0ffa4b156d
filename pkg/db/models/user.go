package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bazaar-backend/pkg/enums"
)

// User is the read-side identity row used for owner and customer projections.
type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	FirstName      string         `gorm:"column:first_name;not null"`
	LastName       string         `gorm:"column:last_name;not null"`
	Email          string         `gorm:"column:email;not null;uniqueIndex"`
	PhoneNumber    *string        `gorm:"column:phone_number"`
	ProfilePicture *string        `gorm:"column:profile_picture"`
	Role           enums.UserRole `gorm:"column:role;not null;default:'user'"`
	IsActive       bool           `gorm:"column:is_active;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
