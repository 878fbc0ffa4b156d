package cart

import (
	cartdto "github.com/angelmondragon/bazaar-backend/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/pkg/i18n"
	"github.com/angelmondragon/bazaar-backend/pkg/money"
)

func newCartResponse(view *cartsvc.View, lang i18n.Lang) cartdto.Cart {
	c := view.Cart
	items := make([]cartdto.Item, 0, len(c.Items))
	for _, it := range c.Items {
		item := cartdto.Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			LineTotal: money.LineTotal(it.Price, it.Quantity),
			Notes:     it.Notes,
			NotesText: i18n.OptionalText(it.Notes, lang),
		}
		if p, ok := view.Products[it.ProductID]; ok {
			item.Product = &cartdto.Product{
				ID:       p.ID,
				Name:     p.Name,
				NameText: i18n.Text(p.Name, lang),
				Price:    p.Price,
				Image:    p.Image,
				Stock:    p.Stock,
			}
		}
		items = append(items, item)
	}

	return cartdto.Cart{
		ID:                      c.ID,
		UserID:                  c.UserID,
		Owner:                   view.Owner,
		Items:                   items,
		TotalItems:              cartsvc.TotalQuantity(c),
		TotalPrice:              c.TotalPrice,
		Discount:                c.Discount,
		DiscountDescription:     c.DiscountDescription,
		DiscountText:            i18n.DiscountText(c.Discount, c.DiscountDescription, lang),
		TotalPriceAfterDiscount: cartsvc.PriceAfterDiscount(c),
		Notes:                   c.Notes,
		NotesText:               i18n.OptionalText(c.Notes, lang),
		Status:                  c.Status.String(),
		StatusText:              i18n.CartStatus(c.Status, lang),
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

func newListingResponse(listing *cartsvc.Listing, lang i18n.Lang) cartdto.Listing {
	carts := make([]cartdto.Cart, 0, len(listing.Carts))
	for i := range listing.Carts {
		carts = append(carts, newCartResponse(&listing.Carts[i], lang))
	}
	return cartdto.Listing{
		Carts: carts,
		Summary: cartdto.Summary{
			TotalCarts:    listing.Summary.TotalCarts,
			NonEmptyCarts: listing.Summary.NonEmptyCarts,
			TotalQuantity: listing.Summary.TotalQuantity,
		},
	}
}
