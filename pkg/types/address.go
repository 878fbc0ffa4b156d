package types

import (
	"strings"

	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
)

// ShippingAddress is the bilingual delivery address stored on an order.
type ShippingAddress struct {
	Address    LocalizedText `json:"address" bson:"address"`
	City       LocalizedText `json:"city" bson:"city"`
	Country    LocalizedText `json:"country" bson:"country"`
	PostalCode string        `json:"postalCode" bson:"postalCode"`
}

// ShippingAddressPatch carries independently patchable address fields.
type ShippingAddressPatch struct {
	Address    *LocalizedText `json:"address,omitempty"`
	City       *LocalizedText `json:"city,omitempty"`
	Country    *LocalizedText `json:"country,omitempty"`
	PostalCode *string        `json:"postalCode,omitempty"`
}

// Validate requires every bilingual part to carry at least one language and a postal code.
func (a ShippingAddress) Validate() error {
	var c pkgerrors.Collector
	c.Merge(a.Address.Validate("shippingAddress.address", TextAnyLanguage))
	c.Merge(a.City.Validate("shippingAddress.city", TextAnyLanguage))
	c.Merge(a.Country.Validate("shippingAddress.country", TextAnyLanguage))
	if strings.TrimSpace(a.PostalCode) == "" {
		c.Add("shippingAddress.postalCode", "is required")
	}
	return c.Err("incomplete shipping address")
}

func (a ShippingAddress) Normalized() ShippingAddress {
	return ShippingAddress{
		Address:    a.Address.Trimmed(),
		City:       a.City.Trimmed(),
		Country:    a.Country.Trimmed(),
		PostalCode: strings.TrimSpace(a.PostalCode),
	}
}

// Apply overlays the supplied fields and revalidates the result.
func (p ShippingAddressPatch) Apply(current ShippingAddress) (ShippingAddress, error) {
	next := current
	if p.Address != nil {
		next.Address = *p.Address
	}
	if p.City != nil {
		next.City = *p.City
	}
	if p.Country != nil {
		next.Country = *p.Country
	}
	if p.PostalCode != nil {
		next.PostalCode = *p.PostalCode
	}
	next = next.Normalized()
	if err := next.Validate(); err != nil {
		return current, err
	}
	return next, nil
}

func (p ShippingAddressPatch) IsEmpty() bool {
	return p.Address == nil && p.City == nil && p.Country == nil && p.PostalCode == nil
}
