package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

// Cart is a user's shopping cart. Items are stored inline as one document.
type Cart struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	UserID              uuid.UUID            `gorm:"column:user_id;type:uuid;not null"`
	Items               []CartItem           `gorm:"column:items;type:jsonb;serializer:json"`
	TotalPrice          decimal.Decimal      `gorm:"column:total_price;type:numeric(14,2);not null;default:0"`
	Discount            decimal.Decimal      `gorm:"column:discount;type:numeric(5,2);not null;default:0"`
	DiscountDescription *types.LocalizedText `gorm:"column:discount_description;type:jsonb;serializer:json"`
	Notes               *types.LocalizedText `gorm:"column:notes;type:jsonb;serializer:json"`
	Status              enums.CartStatus     `gorm:"column:status;not null;default:'active'"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }

// CartItem is one product line. A cart holds at most one item per product.
type CartItem struct {
	ProductID uuid.UUID            `json:"product"`
	Quantity  int                  `json:"quantity"`
	Price     decimal.Decimal      `json:"price"`
	Notes     *types.LocalizedText `json:"notes,omitempty"`
}
