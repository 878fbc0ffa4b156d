package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

// ProductSummary is the read-side projection attached to cart and order lines.
type ProductSummary struct {
	ID    uuid.UUID           `json:"id"`
	Name  types.LocalizedText `json:"name"`
	Price decimal.Decimal     `json:"price"`
	Image *string             `json:"image,omitempty"`
	Stock int                 `json:"stock"`
}

func SummaryFromModel(p models.Product) ProductSummary {
	return ProductSummary{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
		Stock: p.Stock,
	}
}
