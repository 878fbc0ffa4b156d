package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

// Product is the read-side catalog row consulted for existence, stock and display.
type Product struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name      types.LocalizedText `gorm:"column:name;type:jsonb;serializer:json"`
	Price     decimal.Decimal     `gorm:"column:price;type:numeric(14,2);not null;default:0"`
	Stock     int                 `gorm:"column:stock;not null;default:0"`
	Image     *string             `gorm:"column:image"`
	IsActive  bool                `gorm:"column:is_active;not null"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
