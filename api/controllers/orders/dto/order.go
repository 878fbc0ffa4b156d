package ordersdto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/internal/users"
	"github.com/angelmondragon/bazaar-backend/pkg/i18n"
	"github.com/angelmondragon/bazaar-backend/pkg/pagination"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

type Product struct {
	ID       uuid.UUID           `json:"id"`
	Name     types.LocalizedText `json:"name"`
	NameText string              `json:"nameText"`
	Image    *string             `json:"image,omitempty"`
}

type Item struct {
	ProductID uuid.UUID       `json:"productId"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Customer is the order owner as shown to admins and the owner.
type Customer struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
}

type Order struct {
	ID                  uuid.UUID             `json:"id"`
	UserID              uuid.UUID             `json:"user"`
	Customer            *Customer             `json:"customer,omitempty"`
	Items               []Item                `json:"items"`
	TotalItems          int                   `json:"totalItems"`
	TotalOrderPrice     decimal.Decimal       `json:"totalOrderPrice"`
	ShippingAddress     types.ShippingAddress `json:"shippingAddress"`
	ShippingAddressText i18n.AddressText      `json:"shippingAddressText"`
	Status              string                `json:"status"`
	StatusText          string                `json:"statusText"`
	PaymentMethod       string                `json:"paymentMethod"`
	PaymentMethodText   string                `json:"paymentMethodText"`
	PaymentStatus       string                `json:"paymentStatus"`
	PaymentStatusText   string                `json:"paymentStatusText"`
	Notes               *types.LocalizedText  `json:"notes,omitempty"`
	NotesText           string                `json:"notesText,omitempty"`
	IsActive            bool                  `json:"isActive"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

type ListSummary struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// Page is the admin listing payload.
type Page struct {
	Orders     []Order         `json:"orders"`
	Pagination pagination.Meta `json:"pagination"`
	Summary    ListSummary     `json:"summary"`
}

type OwnerSummary struct {
	TotalOrders  int             `json:"totalOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

type OwnerListing struct {
	Orders  []Order      `json:"orders"`
	Summary OwnerSummary `json:"summary"`
}

func CustomerFromProfile(p users.Profile) *Customer {
	return &Customer{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
	}
}
