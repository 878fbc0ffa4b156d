package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

type itemRequest struct {
	ProductID uuid.UUID            `json:"product" validate:"required"`
	Quantity  int                  `json:"quantity" validate:"min=1"`
	Price     *decimal.Decimal     `json:"price,omitempty"`
	Notes     *types.LocalizedText `json:"notes,omitempty"`
}

type addItemsRequest struct {
	Items []itemRequest        `json:"items" validate:"required,min=1,dive"`
	Notes *types.LocalizedText `json:"notes,omitempty"`
}

func (r addItemsRequest) toInput() cartsvc.AddItemsInput {
	items := make([]cartsvc.ItemInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = cartsvc.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Notes:     it.Notes,
		}
	}
	return cartsvc.AddItemsInput{Items: items, Notes: r.Notes}
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type notesRequest struct {
	Notes *types.LocalizedText `json:"notes"`
}

type discountRequest struct {
	Discount            *decimal.Decimal     `json:"discount" validate:"required"`
	DiscountDescription *types.LocalizedText `json:"discountDescription,omitempty"`
}

type adminItemRequest struct {
	ProductID uuid.UUID            `json:"product" validate:"required"`
	Quantity  int                  `json:"quantity" validate:"min=1"`
	Price     decimal.Decimal      `json:"price"`
	Notes     *types.LocalizedText `json:"notes,omitempty"`
}

type adminPatchRequest struct {
	Items               *[]adminItemRequest  `json:"items,omitempty" validate:"omitempty,dive"`
	Discount            *decimal.Decimal     `json:"discount,omitempty"`
	DiscountDescription *types.LocalizedText `json:"discountDescription,omitempty"`
	Notes               *types.LocalizedText `json:"notes,omitempty"`
	Status              *string              `json:"status,omitempty" validate:"omitempty,oneof=active abandoned converted"`
}

func (r adminPatchRequest) toPatch() cartsvc.AdminPatch {
	patch := cartsvc.AdminPatch{
		Discount:            r.Discount,
		DiscountDescription: r.DiscountDescription,
		Notes:               r.Notes,
		Status:              r.Status,
	}
	if r.Items != nil {
		items := make([]cartsvc.AdminItemInput, len(*r.Items))
		for i, it := range *r.Items {
			items[i] = cartsvc.AdminItemInput{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
				Notes:     it.Notes,
			}
		}
		patch.Items = &items
	}
	return patch
}
