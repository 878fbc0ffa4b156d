package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/money"
)

// Recalculate sets TotalPrice from the current items. Every mutation calls it before saving.
func Recalculate(c *models.Cart) {
	lines := make([]money.Line, len(c.Items))
	for i, it := range c.Items {
		lines[i] = money.Line{UnitPrice: it.Price, Quantity: it.Quantity}
	}
	c.TotalPrice = money.Total(lines)
}

// PriceAfterDiscount derives totalPrice × (1 − discount/100).
func PriceAfterDiscount(c *models.Cart) decimal.Decimal {
	return money.ApplyDiscount(c.TotalPrice, c.Discount)
}

// TotalQuantity sums item quantities.
func TotalQuantity(c *models.Cart) int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func findItem(c *models.Cart, productID uuid.UUID) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func productIDs(c *models.Cart) []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}
	return ids
}
