// Package money holds the pure price arithmetic shared by carts and orders.
package money

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)

	// MaxDiscountPercent is the inclusive upper bound for cart discounts.
	MaxDiscountPercent = hundred
)

// Line is a priced quantity.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// LineTotal returns unitPrice × quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Total sums the line totals.
func Total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l.UnitPrice, l.Quantity))
	}
	return sum
}

// StoredScale is the number of fractional digits persisted for prices and discounts.
const StoredScale = 2

// FitsStoredScale reports whether d survives storage without rounding.
func FitsStoredScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(StoredScale))
}

// ValidDiscount reports whether percent lies in [0, 100] and fits the stored scale.
func ValidDiscount(percent decimal.Decimal) bool {
	return !percent.IsNegative() && percent.LessThanOrEqual(MaxDiscountPercent) && FitsStoredScale(percent)
}

// ApplyDiscount returns total × (1 − percent/100).
func ApplyDiscount(total, percent decimal.Decimal) decimal.Decimal {
	if percent.IsZero() {
		return total
	}
	factor := decimal.NewFromInt(1).Sub(percent.Div(hundred))
	return total.Mul(factor)
}

// Average returns total / count, or zero when count is zero.
func Average(total decimal.Decimal, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count))
}

// Round2 rounds half away from zero to two decimal places for display.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(StoredScale)
}
