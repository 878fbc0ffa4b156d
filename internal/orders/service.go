package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/metrics"
	"github.com/angelmondragon/bazaar-backend/pkg/money"
	"github.com/angelmondragon/bazaar-backend/pkg/pagination"
	"github.com/angelmondragon/bazaar-backend/pkg/store"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, caller auth.Caller, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, caller auth.Caller, orderID uuid.UUID) (*models.Order, error)
	TransitionStatus(ctx context.Context, caller auth.Caller, orderID uuid.UUID, status string) (*models.Order, error)
	MarkPaid(ctx context.Context, caller auth.Caller, orderID uuid.UUID) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, caller auth.Caller, orderID uuid.UUID, paymentStatus string) (*models.Order, error)
	Cancel(ctx context.Context, caller auth.Caller, orderID uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, caller auth.Caller, orderID uuid.UUID, input UpdateInput) (*models.Order, error)
	UpdateNotes(ctx context.Context, caller auth.Caller, orderID uuid.UUID, notes *types.LocalizedText) (*models.Order, error)
	Delete(ctx context.Context, caller auth.Caller, orderID uuid.UUID) error
	ListAll(ctx context.Context, caller auth.Caller, query ListQuery) (*Page, error)
	ListMine(ctx context.Context, caller auth.Caller) (*OwnerListing, error)
	ListByOwner(ctx context.Context, caller auth.Caller, ownerID uuid.UUID) (*OwnerListing, error)
	// Related loads product and customer projections for rendering.
	Related(ctx context.Context, orders ...models.Order) (*Related, error)
}

type service struct {
	repo      Repository
	carts     CartConverter
	products  productProjector
	customers customerDirectory
	metrics   *metrics.CommerceMetrics
	logg      *logger.Logger
}

// NewService builds the order engine. Metrics are optional.
func NewService(repo Repository, carts CartConverter, products productProjector, customers customerDirectory, m *metrics.CommerceMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart converter required")
	}
	if products == nil {
		return nil, fmt.Errorf("product projector required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer directory required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		carts:     carts,
		products:  products,
		customers: customers,
		metrics:   m,
		logg:      logg,
	}, nil
}

func (s *service) Create(ctx context.Context, caller auth.Caller, input CreateInput) (*models.Order, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	var c pkgerrors.Collector
	items := collectItems(&c, input.Items)
	c.Merge(input.ShippingAddress.Validate())
	method := enums.PaymentMethodCash
	if input.PaymentMethod != "" {
		parsed, err := enums.ParsePaymentMethod(input.PaymentMethod)
		if err != nil {
			c.Add("paymentMethod", err.Error())
		}
		method = parsed
	}
	c.Merge(types.ValidateOptionalText("notes", input.Notes))
	if err := c.Err("invalid order"); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          caller.UserID,
		Items:           items,
		TotalOrderPrice: orderTotal(items),
		ShippingAddress: input.ShippingAddress.Normalized(),
		Status:          enums.OrderStatusPending,
		PaymentMethod:   method,
		PaymentStatus:   enums.PaymentStatusPending,
		Notes:           types.NormalizeText(input.Notes),
		IsActive:        true,
	}
	if input.ClaimedTotal != nil && !input.ClaimedTotal.Equal(order.TotalOrderPrice) {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"claimed_total":  input.ClaimedTotal.String(),
			"computed_total": order.TotalOrderPrice.String(),
		})
		s.logg.Warn(ctx, "ignoring client supplied order total")
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, translate(err)
	}
	s.metrics.IncOrderCreated(method.String())

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"total":    order.TotalOrderPrice.String(),
	})
	s.logg.Info(ctx, "order created")

	if err := s.carts.MarkConverted(ctx, caller.UserID); err != nil {
		// the order stands; the cart stays active and can be cleared by the user
		s.logg.Error(ctx, "convert cart after order", err)
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, caller auth.Caller, orderID uuid.UUID) (*models.Order, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	return s.loadAccessible(ctx, caller, orderID)
}

func (s *service) TransitionStatus(ctx context.Context, caller auth.Caller, orderID uuid.UUID, status string) (*models.Order, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	to, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, fieldError("status", err.Error())
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from, err := transitionStatus(order, to)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	s.recordStatus(ctx, order, from)
	return order, nil
}

func (s *service) MarkPaid(ctx context.Context, caller auth.Caller, orderID uuid.UUID) (*models.Order, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	order, err := s.loadAccessible(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	return s.applyPayment(ctx, order, enums.PaymentStatusPaid)
}

func (s *service) UpdatePaymentStatus(ctx context.Context, caller auth.Caller, orderID uuid.UUID, paymentStatus string) (*models.Order, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	to, err := enums.ParsePaymentStatus(paymentStatus)
	if err != nil {
		return nil, fieldError("paymentStatus", err.Error())
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.applyPayment(ctx, order, to)
}

func (s *service) Cancel(ctx context.Context, caller auth.Caller, orderID uuid.UUID) (*models.Order, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	order, err := s.loadAccessible(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	from, err := transitionStatus(order, enums.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	s.recordStatus(ctx, order, from)
	return order, nil
}

func (s *service) UpdateOrder(ctx context.Context, caller auth.Caller, orderID uuid.UUID, input UpdateInput) (*models.Order, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	order, err := s.loadAccessible(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		if err := ensureOwnerEditable(order); err != nil {
			return nil, err
		}
		if input.touchesAdminFields() {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can change status, payment status or active flag")
		}
	}

	var c pkgerrors.Collector
	var items []models.OrderItem
	if input.Items != nil {
		items = collectItems(&c, *input.Items)
	}
	address := order.ShippingAddress
	if input.ShippingAddress != nil && !input.ShippingAddress.IsEmpty() {
		patched, err := input.ShippingAddress.Apply(order.ShippingAddress)
		c.Merge(err)
		address = patched
	}
	var method enums.PaymentMethod
	if input.PaymentMethod != nil {
		parsed, err := enums.ParsePaymentMethod(*input.PaymentMethod)
		if err != nil {
			c.Add("paymentMethod", err.Error())
		}
		method = parsed
	}
	var status enums.OrderStatus
	if input.Status != nil {
		parsed, err := enums.ParseOrderStatus(*input.Status)
		if err != nil {
			c.Add("status", err.Error())
		}
		status = parsed
	}
	var payment enums.PaymentStatus
	if input.PaymentStatus != nil {
		parsed, err := enums.ParsePaymentStatus(*input.PaymentStatus)
		if err != nil {
			c.Add("paymentStatus", err.Error())
		}
		payment = parsed
	}
	if err := c.Err("invalid order update"); err != nil {
		return nil, err
	}

	fromStatus := order.Status
	if status != "" && status != order.Status {
		if _, err := transitionStatus(order, status); err != nil {
			return nil, err
		}
	}
	fromPayment := order.PaymentStatus
	if payment != "" && payment != order.PaymentStatus {
		if _, _, err := transitionPayment(order, payment); err != nil {
			return nil, err
		}
	}
	if input.Items != nil {
		order.Items = items
		order.TotalOrderPrice = orderTotal(items)
	}
	order.ShippingAddress = address
	if method != "" {
		order.PaymentMethod = method
	}
	if input.Notes != nil {
		order.Notes = types.NormalizeText(input.Notes)
	}
	if input.IsActive != nil {
		order.IsActive = *input.IsActive
	}

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	if order.PaymentStatus != fromPayment {
		s.metrics.IncPaymentTransition(fromPayment.String(), order.PaymentStatus.String())
	}
	if order.Status != fromStatus {
		s.recordStatus(ctx, order, fromStatus)
	}
	return order, nil
}

func (s *service) UpdateNotes(ctx context.Context, caller auth.Caller, orderID uuid.UUID, notes *types.LocalizedText) (*models.Order, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	if err := types.ValidateOptionalText("notes", notes); err != nil {
		return nil, err
	}
	order, err := s.loadAccessible(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		if err := ensureOwnerEditable(order); err != nil {
			return nil, err
		}
	}
	order.Notes = types.NormalizeText(notes)
	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Delete(ctx context.Context, caller auth.Caller, orderID uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return translate(err)
	}
	ctx = s.logg.WithField(ctx, "order_id", orderID.String())
	s.logg.Info(ctx, "order deleted")
	return nil
}

func (s *service) ListAll(ctx context.Context, caller auth.Caller, query ListQuery) (*Page, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	filters, err := parseFilters(query)
	if err != nil {
		return nil, err
	}
	params := pagination.Params{Page: query.Page, Limit: query.Limit}.Normalize()

	totals, err := s.repo.Totals(ctx, filters)
	if err != nil {
		return nil, translate(err)
	}
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, translate(err)
	}
	return &Page{
		Orders:     rows,
		Pagination: pagination.BuildMeta(params, totals.Count),
		Summary: ListSummary{
			TotalRevenue:      totals.Revenue,
			AverageOrderValue: money.Round2(money.Average(totals.Revenue, totals.Count)),
		},
	}, nil
}

func (s *service) ListMine(ctx context.Context, caller auth.Caller) (*OwnerListing, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	return s.listOwner(ctx, caller.UserID)
}

func (s *service) ListByOwner(ctx context.Context, caller auth.Caller, ownerID uuid.UUID) (*OwnerListing, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.listOwner(ctx, ownerID)
}

func (s *service) Related(ctx context.Context, orders ...models.Order) (*Related, error) {
	var productIDs, customerIDs []uuid.UUID
	for _, o := range orders {
		customerIDs = append(customerIDs, o.UserID)
		for _, it := range o.Items {
			productIDs = append(productIDs, it.ProductID)
		}
	}
	products, err := s.products.Summaries(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.Profiles(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	return &Related{Products: products, Customers: customers}, nil
}

func (s *service) listOwner(ctx context.Context, ownerID uuid.UUID) (*OwnerListing, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, translate(err)
	}
	revenue := decimal.Zero
	for _, o := range rows {
		revenue = revenue.Add(o.TotalOrderPrice)
	}
	return &OwnerListing{
		Orders:  rows,
		Summary: OwnerSummary{TotalOrders: len(rows), TotalRevenue: revenue},
	}, nil
}

func (s *service) applyPayment(ctx context.Context, order *models.Order, to enums.PaymentStatus) (*models.Order, error) {
	from, advanced, err := transitionPayment(order, to)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	s.metrics.IncPaymentTransition(from.String(), to.String())
	if advanced {
		s.recordStatus(ctx, order, enums.OrderStatusPending)
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID.String(),
		"from_payment": from.String(),
		"to_payment":   to.String(),
	})
	s.logg.Info(ctx, "order payment status changed")
	return order, nil
}

func (s *service) recordStatus(ctx context.Context, order *models.Order, from enums.OrderStatus) {
	s.metrics.IncStatusTransition(from.String(), order.Status.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":    order.ID.String(),
		"from_status": from.String(),
		"to_status":   order.Status.String(),
	})
	s.logg.Info(ctx, "order status changed")
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}

func (s *service) loadAccessible(ctx context.Context, caller auth.Caller, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(order.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not authorized to access this order")
	}
	return order, nil
}

func (s *service) save(ctx context.Context, order *models.Order) error {
	if err := s.repo.Save(ctx, order); err != nil {
		return translate(err)
	}
	return nil
}

func collectItems(c *pkgerrors.Collector, inputs []ItemInput) []models.OrderItem {
	if len(inputs) == 0 {
		c.Add("items", "order must have at least one item")
		return nil
	}
	items := make([]models.OrderItem, 0, len(inputs))
	for i, in := range inputs {
		field := fmt.Sprintf("items[%d]", i)
		if in.ProductID == uuid.Nil {
			c.Add(field+".product", "is required")
		}
		if in.Quantity < 1 {
			c.Add(field+".quantity", "must be at least 1")
		}
		price := decimal.Zero
		switch {
		case in.Price == nil:
			c.Add(field+".price", "is required")
		case in.Price.IsNegative():
			c.Add(field+".price", "must not be negative")
		case !money.FitsStoredScale(*in.Price):
			c.Add(field+".price", "must have at most two decimal places")
		default:
			price = *in.Price
		}
		items = append(items, models.OrderItem{ProductID: in.ProductID, Quantity: in.Quantity, Price: price})
	}
	return items
}

func orderTotal(items []models.OrderItem) decimal.Decimal {
	lines := make([]money.Line, len(items))
	for i, it := range items {
		lines[i] = money.Line{UnitPrice: it.Price, Quantity: it.Quantity}
	}
	return money.Total(lines)
}

func parseFilters(q ListQuery) (Filters, error) {
	var (
		f Filters
		c pkgerrors.Collector
	)
	if q.Status != "" {
		status, err := enums.ParseOrderStatus(q.Status)
		if err != nil {
			c.Add("status", err.Error())
		} else {
			f.Status = &status
		}
	}
	if q.PaymentStatus != "" {
		payment, err := enums.ParsePaymentStatus(q.PaymentStatus)
		if err != nil {
			c.Add("paymentStatus", err.Error())
		} else {
			f.PaymentStatus = &payment
		}
	}
	f.OwnerID = q.OwnerID
	f.IsActive = q.IsActive
	return f, c.Err("invalid order filters")
}

func ensureOwnerEditable(order *models.Order) error {
	switch order.Status {
	case enums.OrderStatusShipped, enums.OrderStatusDelivered, enums.OrderStatusCancelled:
		return pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("cannot update an order that is %s", order.Status))
	}
	return nil
}

func fieldError(field, message string) error {
	var c pkgerrors.Collector
	c.Add(field, message)
	return c.Err(message)
}

func requireUser(caller auth.Caller) error {
	if caller.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return nil
}

func requireAdmin(caller auth.Caller) error {
	if err := requireUser(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	case errors.Is(err, store.ErrDuplicate):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order already exists")
	case pkgerrors.As(err) != nil:
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order store unavailable")
}
