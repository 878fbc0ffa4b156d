package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	internalorders "github.com/angelmondragon/bazaar-backend/internal/orders"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

type itemRequest struct {
	ProductID uuid.UUID        `json:"product" validate:"required"`
	Quantity  int              `json:"quantity" validate:"min=1"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
}

type createOrderRequest struct {
	Items           []itemRequest         `json:"items" validate:"required,min=1,dive"`
	ShippingAddress types.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod,omitempty" validate:"omitempty,oneof=cash credit_card bank_transfer"`
	Notes           *types.LocalizedText  `json:"notes,omitempty"`
	TotalOrderPrice *decimal.Decimal      `json:"totalOrderPrice,omitempty"`
}

func toItems(in []itemRequest) []internalorders.ItemInput {
	items := make([]internalorders.ItemInput, len(in))
	for i, it := range in {
		items[i] = internalorders.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	return items
}

func (r createOrderRequest) toInput() internalorders.CreateInput {
	return internalorders.CreateInput{
		Items:           toItems(r.Items),
		ShippingAddress: r.ShippingAddress,
		PaymentMethod:   r.PaymentMethod,
		Notes:           r.Notes,
		ClaimedTotal:    r.TotalOrderPrice,
	}
}

type updateOrderRequest struct {
	Items           *[]itemRequest              `json:"items,omitempty" validate:"omitempty,min=1,dive"`
	ShippingAddress *types.ShippingAddressPatch `json:"shippingAddress,omitempty"`
	PaymentMethod   *string                     `json:"paymentMethod,omitempty" validate:"omitempty,oneof=cash credit_card bank_transfer"`
	Notes           *types.LocalizedText        `json:"notes,omitempty"`
	Status          *string                     `json:"status,omitempty"`
	PaymentStatus   *string                     `json:"paymentStatus,omitempty"`
	IsActive        *bool                       `json:"isActive,omitempty"`
}

func (r updateOrderRequest) toInput() internalorders.UpdateInput {
	input := internalorders.UpdateInput{
		ShippingAddress: r.ShippingAddress,
		PaymentMethod:   r.PaymentMethod,
		Notes:           r.Notes,
		Status:          r.Status,
		PaymentStatus:   r.PaymentStatus,
		IsActive:        r.IsActive,
	}
	if r.Items != nil {
		items := toItems(*r.Items)
		input.Items = &items
	}
	return input
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

type notesRequest struct {
	Notes *types.LocalizedText `json:"notes"`
}
