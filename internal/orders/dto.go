package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/internal/users"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/angelmondragon/bazaar-backend/pkg/pagination"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

// ItemInput is one requested order line. Price is required and may be zero.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Price     *decimal.Decimal
}

// CreateInput carries a new order. ClaimedTotal is informational only; the
// stored total is always recomputed from Items.
type CreateInput struct {
	Items           []ItemInput
	ShippingAddress types.ShippingAddress
	PaymentMethod   string
	Notes           *types.LocalizedText
	ClaimedTotal    *decimal.Decimal
}

// UpdateInput is a partial order edit. Status, PaymentStatus and IsActive are admin-only.
// A non-nil blank Notes clears the notes.
type UpdateInput struct {
	Items           *[]ItemInput
	ShippingAddress *types.ShippingAddressPatch
	PaymentMethod   *string
	Notes           *types.LocalizedText
	Status          *string
	PaymentStatus   *string
	IsActive        *bool
}

func (u UpdateInput) touchesAdminFields() bool {
	return u.Status != nil || u.PaymentStatus != nil || u.IsActive != nil
}

// Filters narrow the admin order listing. Nil fields do not filter.
type Filters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	OwnerID       *uuid.UUID
	IsActive      *bool
}

// ListQuery is the raw admin listing request.
type ListQuery struct {
	Status        string
	PaymentStatus string
	OwnerID       *uuid.UUID
	IsActive      *bool
	Page          int
	Limit         int
}

// Totals aggregates the filtered order set.
type Totals struct {
	Count   int64
	Revenue decimal.Decimal
}

type ListSummary struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// Page is one admin listing page.
type Page struct {
	Orders     []models.Order
	Pagination pagination.Meta
	Summary    ListSummary
}

type OwnerSummary struct {
	TotalOrders  int             `json:"totalOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// OwnerListing is every order of one user, newest first.
type OwnerListing struct {
	Orders  []models.Order
	Summary OwnerSummary
}

// Related holds the read-side projections for a set of orders.
type Related struct {
	Products  map[uuid.UUID]catalog.ProductSummary
	Customers map[uuid.UUID]users.Profile
}
