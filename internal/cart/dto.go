package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/internal/users"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

// ItemInput is one requested cart line. Price is optional; when supplied it must be positive.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Price     *decimal.Decimal
	Notes     *types.LocalizedText
}

// AddItemsInput adds one or more lines and optionally replaces the cart notes.
type AddItemsInput struct {
	Items []ItemInput
	Notes *types.LocalizedText
}

// AdminItemInput is a full line written by an admin, price included.
type AdminItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	Notes     *types.LocalizedText
}

// AdminPatch carries the fields an admin may overwrite on any cart.
type AdminPatch struct {
	Items               *[]AdminItemInput
	Discount            *decimal.Decimal
	DiscountDescription *types.LocalizedText
	Notes               *types.LocalizedText
	Status              *string
}

// View is a cart plus the read-side projections requested from collaborators.
type View struct {
	Cart     *models.Cart
	Products map[uuid.UUID]catalog.ProductSummary
	Owner    *users.Profile
}

// Summary aggregates the admin cart listing.
type Summary struct {
	TotalCarts    int `json:"totalCarts"`
	NonEmptyCarts int `json:"nonEmptyCarts"`
	TotalQuantity int `json:"totalQuantity"`
}

type Listing struct {
	Carts   []View
	Summary Summary
}
