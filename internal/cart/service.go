package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/metrics"
	"github.com/angelmondragon/bazaar-backend/pkg/money"
	"github.com/angelmondragon/bazaar-backend/pkg/store"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

// Service exposes every cart mutation. Each call loads the cart fresh, applies the
// change under the cart invariants, recalculates totals and persists.
type Service interface {
	GetOrCreate(ctx context.Context, caller auth.Caller) (*models.Cart, error)
	AddItems(ctx context.Context, caller auth.Caller, input AddItemsInput) (*models.Cart, error)
	RemoveItem(ctx context.Context, caller auth.Caller, productID uuid.UUID) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, caller auth.Caller, productID uuid.UUID, quantity int) (*models.Cart, error)
	UpdateItemNotes(ctx context.Context, caller auth.Caller, productID uuid.UUID, notes *types.LocalizedText) (*models.Cart, error)
	UpdateCartNotes(ctx context.Context, caller auth.Caller, notes *types.LocalizedText) (*models.Cart, error)
	ApplyDiscount(ctx context.Context, caller auth.Caller, percent decimal.Decimal, description *types.LocalizedText) (*models.Cart, error)
	Clear(ctx context.Context, caller auth.Caller) (*models.Cart, error)
	ListAll(ctx context.Context, caller auth.Caller) (*Listing, error)
	AdminUpdate(ctx context.Context, caller auth.Caller, cartID uuid.UUID, patch AdminPatch) (*models.Cart, error)
	AdminDelete(ctx context.Context, caller auth.Caller, cartID uuid.UUID) error
	// MarkConverted closes the user's active cart after an order is placed and opens a fresh one.
	// A missing or empty active cart is left untouched.
	MarkConverted(ctx context.Context, userID uuid.UUID) error
	View(ctx context.Context, cart *models.Cart) (*View, error)
}

type service struct {
	repo     CartRepository
	products productCatalog
	owners   ownerDirectory
	metrics  *metrics.CommerceMetrics
	logg     *logger.Logger
}

// NewService builds the cart engine. Metrics are optional.
func NewService(repo CartRepository, products productCatalog, owners ownerDirectory, m *metrics.CommerceMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if owners == nil {
		return nil, fmt.Errorf("owner directory required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		products: products,
		owners:   owners,
		metrics:  m,
		logg:     logg,
	}, nil
}

func (s *service) GetOrCreate(ctx context.Context, caller auth.Caller) (cart *models.Cart, err error) {
	defer s.observe("get_or_create", &err)
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	return s.activeOrCreate(ctx, caller.UserID)
}

func (s *service) AddItems(ctx context.Context, caller auth.Caller, input AddItemsInput) (cart *models.Cart, err error) {
	defer s.observe("add_items", &err)
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	if err := validateItemInputs(input); err != nil {
		return nil, err
	}

	requested := mergeItemInputs(input.Items)
	ids := make([]uuid.UUID, len(requested))
	for i, item := range requested {
		ids[i] = item.ProductID
	}
	products, err := s.products.Products(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range requested {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"productId": item.ProductID})
		}
		if err := checkStock(product, item.Quantity); err != nil {
			return nil, err
		}
	}

	cart, err = s.activeOrCreate(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	for _, item := range requested {
		if idx := findItem(cart, item.ProductID); idx >= 0 {
			cart.Items[idx].Quantity += item.Quantity
			if notes := types.NormalizeText(item.Notes); notes != nil {
				cart.Items[idx].Notes = notes
			}
			continue
		}
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     products[item.ProductID].Price,
			Notes:     types.NormalizeText(item.Notes),
		})
	}
	if notes := types.NormalizeText(input.Notes); notes != nil {
		cart.Notes = notes
	}
	return s.save(ctx, cart)
}

func (s *service) RemoveItem(ctx context.Context, caller auth.Caller, productID uuid.UUID) (cart *models.Cart, err error) {
	defer s.observe("remove_item", &err)
	cart, idx, err := s.loadItem(ctx, caller, productID)
	if err != nil {
		return nil, err
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	return s.save(ctx, cart)
}

func (s *service) UpdateItemQuantity(ctx context.Context, caller auth.Caller, productID uuid.UUID, quantity int) (cart *models.Cart, err error) {
	defer s.observe("update_quantity", &err)
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	if quantity < 1 {
		var c pkgerrors.Collector
		c.Add("quantity", "must be at least 1")
		return nil, c.Err("quantity must be at least 1")
	}
	cart, idx, err := s.loadItem(ctx, caller, productID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.Products(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	product, ok := products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"productId": productID})
	}
	if err := checkStock(product, quantity); err != nil {
		return nil, err
	}
	cart.Items[idx].Quantity = quantity
	return s.save(ctx, cart)
}

func (s *service) UpdateItemNotes(ctx context.Context, caller auth.Caller, productID uuid.UUID, notes *types.LocalizedText) (cart *models.Cart, err error) {
	defer s.observe("update_item_notes", &err)
	if err := types.ValidateOptionalText("notes", notes); err != nil {
		return nil, err
	}
	cart, idx, err := s.loadItem(ctx, caller, productID)
	if err != nil {
		return nil, err
	}
	cart.Items[idx].Notes = types.NormalizeText(notes)
	return s.save(ctx, cart)
}

func (s *service) UpdateCartNotes(ctx context.Context, caller auth.Caller, notes *types.LocalizedText) (cart *models.Cart, err error) {
	defer s.observe("update_cart_notes", &err)
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	if err := types.ValidateOptionalText("notes", notes); err != nil {
		return nil, err
	}
	cart, err = s.loadActive(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	cart.Notes = types.NormalizeText(notes)
	return s.save(ctx, cart)
}

func (s *service) ApplyDiscount(ctx context.Context, caller auth.Caller, percent decimal.Decimal, description *types.LocalizedText) (cart *models.Cart, err error) {
	defer s.observe("apply_discount", &err)
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	var c pkgerrors.Collector
	if !money.ValidDiscount(percent) {
		c.Add("discount", "must be between 0 and 100 with at most two decimal places")
	}
	c.Merge(types.ValidateOptionalText("discountDescription", description))
	if err := c.Err("invalid discount"); err != nil {
		return nil, err
	}

	cart, err = s.loadActive(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	cart.Discount = percent
	if desc := types.NormalizeText(description); desc != nil {
		cart.DiscountDescription = desc
	}
	return s.save(ctx, cart)
}

func (s *service) Clear(ctx context.Context, caller auth.Caller) (cart *models.Cart, err error) {
	defer s.observe("clear", &err)
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	cart, err = s.loadActive(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	cart.Discount = decimal.Zero
	cart.DiscountDescription = nil
	cart.Notes = nil
	return s.save(ctx, cart)
}

func (s *service) ListAll(ctx context.Context, caller auth.Caller) (listing *Listing, err error) {
	defer s.observe("list_all", &err)
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	carts, err := s.repo.List(ctx)
	if err != nil {
		return nil, translate(err, "cart not found")
	}

	var productRefs, ownerRefs []uuid.UUID
	for i := range carts {
		productRefs = append(productRefs, productIDs(&carts[i])...)
		ownerRefs = append(ownerRefs, carts[i].UserID)
	}
	summaries, err := s.products.Summaries(ctx, productRefs)
	if err != nil {
		return nil, err
	}
	profiles, err := s.owners.Profiles(ctx, ownerRefs)
	if err != nil {
		return nil, err
	}

	listing = &Listing{Carts: make([]View, 0, len(carts))}
	for i := range carts {
		c := &carts[i]
		view := View{Cart: c, Products: pick(summaries, productIDs(c))}
		if p, ok := profiles[c.UserID]; ok {
			owner := p
			view.Owner = &owner
		}
		listing.Carts = append(listing.Carts, view)

		listing.Summary.TotalCarts++
		if len(c.Items) > 0 {
			listing.Summary.NonEmptyCarts++
		}
		listing.Summary.TotalQuantity += TotalQuantity(c)
	}
	return listing, nil
}

func (s *service) AdminUpdate(ctx context.Context, caller auth.Caller, cartID uuid.UUID, patch AdminPatch) (cart *models.Cart, err error) {
	defer s.observe("admin_update", &err)
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	status, err := validateAdminPatch(patch)
	if err != nil {
		return nil, err
	}

	cart, err = s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, translate(err, "cart not found")
	}
	previous := cart.Status

	if patch.Items != nil {
		items := make([]models.CartItem, 0, len(*patch.Items))
		for _, in := range *patch.Items {
			items = append(items, models.CartItem{
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				Price:     in.Price,
				Notes:     types.NormalizeText(in.Notes),
			})
		}
		cart.Items = items
	}
	if patch.Discount != nil {
		cart.Discount = *patch.Discount
	}
	if patch.DiscountDescription != nil {
		cart.DiscountDescription = types.NormalizeText(patch.DiscountDescription)
	}
	if patch.Notes != nil {
		cart.Notes = types.NormalizeText(patch.Notes)
	}
	if status != "" {
		cart.Status = status
	}

	saved, err := s.save(ctx, cart)
	if err != nil {
		return nil, err
	}
	if saved.Status != previous {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"cart_id":     saved.ID.String(),
			"from_status": previous.String(),
			"to_status":   saved.Status.String(),
		})
		s.logg.Info(ctx, "cart status changed by admin")
	}
	return saved, nil
}

func (s *service) AdminDelete(ctx context.Context, caller auth.Caller, cartID uuid.UUID) (err error) {
	defer s.observe("admin_delete", &err)
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, cartID); err != nil {
		return translate(err, "cart not found")
	}
	ctx = s.logg.WithField(ctx, "cart_id", cartID.String())
	s.logg.Info(ctx, "cart deleted by admin")
	return nil
}

func (s *service) MarkConverted(ctx context.Context, userID uuid.UUID) (err error) {
	defer s.observe("mark_converted", &err)
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return translate(err, "cart not found")
	}
	if len(cart.Items) == 0 {
		return nil
	}
	cart.Status = enums.CartStatusConverted
	fresh := newCart(userID)
	if err := s.repo.Convert(ctx, cart, fresh); err != nil {
		return translate(err, "cart not found")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"cart_id":  cart.ID.String(),
		"user_id":  userID.String(),
		"fresh_id": fresh.ID.String(),
	})
	s.logg.Info(ctx, "cart converted")
	return nil
}

func (s *service) View(ctx context.Context, cart *models.Cart) (*View, error) {
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	summaries, err := s.products.Summaries(ctx, productIDs(cart))
	if err != nil {
		return nil, err
	}
	view := &View{Cart: cart, Products: summaries}
	profiles, err := s.owners.Profiles(ctx, []uuid.UUID{cart.UserID})
	if err != nil {
		return nil, err
	}
	if p, ok := profiles[cart.UserID]; ok {
		view.Owner = &p
	}
	return view, nil
}

func (s *service) activeOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, translate(err, "cart not found")
	}

	cart = newCart(userID)
	if err := s.repo.Create(ctx, cart); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// lost a creation race; the other request's cart is the active one
			existing, findErr := s.repo.FindActiveByUser(ctx, userID)
			if findErr != nil {
				return nil, translate(findErr, "cart not found")
			}
			return existing, nil
		}
		return nil, translate(err, "cart not found")
	}
	return cart, nil
}

func (s *service) loadActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "cart not found")
	}
	return cart, nil
}

func (s *service) loadItem(ctx context.Context, caller auth.Caller, productID uuid.UUID) (*models.Cart, int, error) {
	if err := requireUser(caller); err != nil {
		return nil, -1, err
	}
	cart, err := s.loadActive(ctx, caller.UserID)
	if err != nil {
		return nil, -1, err
	}
	idx := findItem(cart, productID)
	if idx < 0 {
		return nil, -1, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart").
			WithDetails(map[string]any{"productId": productID})
	}
	return cart, idx, nil
}

func (s *service) save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	Recalculate(cart)
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, translate(err, "cart not found")
	}
	return cart, nil
}

func (s *service) observe(op string, err *error) {
	s.metrics.ObserveCartOp(op, *err)
}

func newCart(userID uuid.UUID) *models.Cart {
	return &models.Cart{
		ID:         uuid.New(),
		UserID:     userID,
		Items:      []models.CartItem{},
		TotalPrice: decimal.Zero,
		Discount:   decimal.Zero,
		Status:     enums.CartStatusActive,
	}
}

func validateItemInputs(input AddItemsInput) error {
	var c pkgerrors.Collector
	if len(input.Items) == 0 {
		c.Add("items", "at least one item is required")
	}
	for i, item := range input.Items {
		field := fmt.Sprintf("items[%d]", i)
		if item.ProductID == uuid.Nil {
			c.Add(field+".product", "is required")
		}
		if item.Quantity < 1 {
			c.Add(field+".quantity", "must be at least 1")
		}
		if item.Price != nil {
			if !item.Price.IsPositive() {
				c.Add(field+".price", "must be greater than 0")
			} else if !money.FitsStoredScale(*item.Price) {
				c.Add(field+".price", "must have at most two decimal places")
			}
		}
		c.Merge(types.ValidateOptionalText(field+".notes", item.Notes))
	}
	c.Merge(types.ValidateOptionalText("notes", input.Notes))
	return c.Err("invalid cart items")
}

// mergeItemInputs folds repeated products into one entry, keeping first-seen order.
// Later notes win when supplied.
func mergeItemInputs(items []ItemInput) []ItemInput {
	index := make(map[uuid.UUID]int, len(items))
	out := make([]ItemInput, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			if item.Notes != nil {
				out[i].Notes = item.Notes
			}
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out
}

func validateAdminPatch(patch AdminPatch) (enums.CartStatus, error) {
	var c pkgerrors.Collector
	if patch.Items != nil {
		seen := make(map[uuid.UUID]struct{}, len(*patch.Items))
		for i, item := range *patch.Items {
			field := fmt.Sprintf("items[%d]", i)
			if item.ProductID == uuid.Nil {
				c.Add(field+".product", "is required")
			} else if _, dup := seen[item.ProductID]; dup {
				c.Add(field+".product", "appears more than once")
			}
			seen[item.ProductID] = struct{}{}
			if item.Quantity < 1 {
				c.Add(field+".quantity", "must be at least 1")
			}
			if item.Price.IsNegative() {
				c.Add(field+".price", "must not be negative")
			} else if !money.FitsStoredScale(item.Price) {
				c.Add(field+".price", "must have at most two decimal places")
			}
		}
	}
	if patch.Discount != nil && !money.ValidDiscount(*patch.Discount) {
		c.Add("discount", "must be between 0 and 100 with at most two decimal places")
	}
	var status enums.CartStatus
	if patch.Status != nil {
		parsed, err := enums.ParseCartStatus(*patch.Status)
		if err != nil {
			c.Add("status", err.Error())
		}
		status = parsed
	}
	if err := c.Err("invalid cart update"); err != nil {
		return "", err
	}
	return status, nil
}

func checkStock(product models.Product, quantity int) error {
	if product.Stock >= quantity {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{
			"productId": product.ID,
			"available": product.Stock,
			"requested": quantity,
		})
}

func pick(all map[uuid.UUID]catalog.ProductSummary, ids []uuid.UUID) map[uuid.UUID]catalog.ProductSummary {
	out := make(map[uuid.UUID]catalog.ProductSummary, len(ids))
	for _, id := range ids {
		if p, ok := all[id]; ok {
			out[id] = p
		}
	}
	return out
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

func translate(err error, notFound string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFound)
	case errors.Is(err, store.ErrDuplicate):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "user already has an active cart")
	case pkgerrors.As(err) != nil:
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store unavailable")
}
