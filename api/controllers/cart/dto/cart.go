package cartdto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/internal/users"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

// Product is the catalog projection shown next to each cart line.
type Product struct {
	ID       uuid.UUID           `json:"id"`
	Name     types.LocalizedText `json:"name"`
	NameText string              `json:"nameText"`
	Price    decimal.Decimal     `json:"price"`
	Image    *string             `json:"image,omitempty"`
	Stock    int                 `json:"stock"`
}

type Item struct {
	ProductID uuid.UUID            `json:"productId"`
	Product   *Product             `json:"product,omitempty"`
	Quantity  int                  `json:"quantity"`
	Price     decimal.Decimal      `json:"price"`
	LineTotal decimal.Decimal      `json:"lineTotal"`
	Notes     *types.LocalizedText `json:"notes,omitempty"`
	NotesText string               `json:"notesText,omitempty"`
}

// Cart is the localized cart representation. Raw bilingual values are kept
// next to their *Text rendering in the requested language.
type Cart struct {
	ID                      uuid.UUID            `json:"id"`
	UserID                  uuid.UUID            `json:"user"`
	Owner                   *users.Profile       `json:"owner,omitempty"`
	Items                   []Item               `json:"items"`
	TotalItems              int                  `json:"totalItems"`
	TotalPrice              decimal.Decimal      `json:"totalPrice"`
	Discount                decimal.Decimal      `json:"discount"`
	DiscountDescription     *types.LocalizedText `json:"discountDescription,omitempty"`
	DiscountText            string               `json:"discountText"`
	TotalPriceAfterDiscount decimal.Decimal      `json:"totalPriceAfterDiscount"`
	Notes                   *types.LocalizedText `json:"notes,omitempty"`
	NotesText               string               `json:"notesText,omitempty"`
	Status                  string               `json:"status"`
	StatusText              string               `json:"statusText"`
	CreatedAt               time.Time            `json:"createdAt"`
	UpdatedAt               time.Time            `json:"updatedAt"`
}

type Summary struct {
	TotalCarts    int `json:"totalCarts"`
	NonEmptyCarts int `json:"nonEmptyCarts"`
	TotalQuantity int `json:"totalQuantity"`
}

type Listing struct {
	Carts   []Cart  `json:"carts"`
	Summary Summary `json:"summary"`
}
