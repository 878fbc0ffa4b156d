package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

// Order is a placed order with its line items captured at creation.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null"`
	Items           []OrderItem           `gorm:"column:items;type:jsonb;serializer:json"`
	TotalOrderPrice decimal.Decimal       `gorm:"column:total_order_price;type:numeric(14,2);not null;default:0"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Status          enums.OrderStatus     `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;not null;default:'cash'"`
	PaymentStatus   enums.PaymentStatus   `gorm:"column:payment_status;not null;default:'pending'"`
	Notes           *types.LocalizedText  `gorm:"column:notes;type:jsonb;serializer:json"`
	IsActive        bool                  `gorm:"column:is_active;not null"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ProductID uuid.UUID       `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// TotalItems is the sum of quantities across all lines.
func (o Order) TotalItems() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
