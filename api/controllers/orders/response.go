package orders

import (
	ordersdto "github.com/angelmondragon/bazaar-backend/api/controllers/orders/dto"
	internalorders "github.com/angelmondragon/bazaar-backend/internal/orders"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/i18n"
	"github.com/angelmondragon/bazaar-backend/pkg/money"
)

func newOrderResponse(o models.Order, related *internalorders.Related, lang i18n.Lang) ordersdto.Order {
	items := make([]ordersdto.Item, 0, len(o.Items))
	for _, it := range o.Items {
		item := ordersdto.Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			LineTotal: money.LineTotal(it.Price, it.Quantity),
		}
		if related != nil {
			if p, ok := related.Products[it.ProductID]; ok {
				item.Product = &ordersdto.Product{ID: p.ID, Name: p.Name, NameText: i18n.Text(p.Name, lang), Image: p.Image}
			}
		}
		items = append(items, item)
	}

	out := ordersdto.Order{
		ID:                  o.ID,
		UserID:              o.UserID,
		Items:               items,
		TotalItems:          o.TotalItems(),
		TotalOrderPrice:     o.TotalOrderPrice,
		ShippingAddress:     o.ShippingAddress,
		ShippingAddressText: i18n.Address(o.ShippingAddress, lang),
		Status:              o.Status.String(),
		StatusText:          i18n.OrderStatus(o.Status, lang),
		PaymentMethod:       o.PaymentMethod.String(),
		PaymentMethodText:   i18n.PaymentMethod(o.PaymentMethod, lang),
		PaymentStatus:       o.PaymentStatus.String(),
		PaymentStatusText:   i18n.PaymentStatus(o.PaymentStatus, lang),
		Notes:               o.Notes,
		NotesText:           i18n.OptionalText(o.Notes, lang),
		IsActive:            o.IsActive,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
	if related != nil {
		if p, ok := related.Customers[o.UserID]; ok {
			out.Customer = ordersdto.CustomerFromProfile(p)
		}
	}
	return out
}

func newOrderList(rows []models.Order, related *internalorders.Related, lang i18n.Lang) []ordersdto.Order {
	out := make([]ordersdto.Order, 0, len(rows))
	for _, o := range rows {
		out = append(out, newOrderResponse(o, related, lang))
	}
	return out
}

func newPageResponse(page *internalorders.Page, related *internalorders.Related, lang i18n.Lang) ordersdto.Page {
	return ordersdto.Page{
		Orders:     newOrderList(page.Orders, related, lang),
		Pagination: page.Pagination,
		Summary: ordersdto.ListSummary{
			TotalRevenue:      page.Summary.TotalRevenue,
			AverageOrderValue: page.Summary.AverageOrderValue,
		},
	}
}

func newOwnerListingResponse(listing *internalorders.OwnerListing, related *internalorders.Related, lang i18n.Lang) ordersdto.OwnerListing {
	return ordersdto.OwnerListing{
		Orders: newOrderList(listing.Orders, related, lang),
		Summary: ordersdto.OwnerSummary{
			TotalOrders:  listing.Summary.TotalOrders,
			TotalRevenue: listing.Summary.TotalRevenue,
		},
	}
}
