package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
)

func TestRecalculate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		items []models.CartItem
		want  string
	}{
		{name: "empty", want: "0"},
		{name: "single", items: []models.CartItem{{ProductID: uuid.New(), Quantity: 3, Price: decimal.RequireFromString("0.1")}}, want: "0.3"},
		{name: "mixed", items: []models.CartItem{
			{ProductID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("19.99")},
			{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("0.02")},
		}, want: "40"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := &models.Cart{Items: tc.items, TotalPrice: decimal.NewFromInt(999)}
			Recalculate(c)
			if !c.TotalPrice.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, c.TotalPrice)
			}
		})
	}
}

func TestPriceAfterDiscountBounds(t *testing.T) {
	t.Parallel()

	c := &models.Cart{TotalPrice: decimal.NewFromInt(80)}
	if !PriceAfterDiscount(c).Equal(decimal.NewFromInt(80)) {
		t.Fatalf("zero discount should keep total")
	}
	c.Discount = decimal.NewFromInt(100)
	if !PriceAfterDiscount(c).IsZero() {
		t.Fatalf("full discount should yield zero, got %s", PriceAfterDiscount(c))
	}
	c.Discount = decimal.NewFromInt(25)
	if !PriceAfterDiscount(c).Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected 60, got %s", PriceAfterDiscount(c))
	}
}
