package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartdto "github.com/angelmondragon/bazaar-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/bazaar-backend/api/middleware"
	cartsvc "github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/i18n"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

type stubCartService struct {
	cart    *models.Cart
	err     error
	listing *cartsvc.Listing

	lastAdd      cartsvc.AddItemsInput
	lastQuantity int
	lastProduct  uuid.UUID
	lastPatch    cartsvc.AdminPatch
	deleted      uuid.UUID
}

func (s *stubCartService) GetOrCreate(ctx context.Context, caller auth.Caller) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) AddItems(ctx context.Context, caller auth.Caller, input cartsvc.AddItemsInput) (*models.Cart, error) {
	s.lastAdd = input
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, caller auth.Caller, productID uuid.UUID) (*models.Cart, error) {
	s.lastProduct = productID
	return s.cart, s.err
}

func (s *stubCartService) UpdateItemQuantity(ctx context.Context, caller auth.Caller, productID uuid.UUID, quantity int) (*models.Cart, error) {
	s.lastProduct = productID
	s.lastQuantity = quantity
	return s.cart, s.err
}

func (s *stubCartService) UpdateItemNotes(ctx context.Context, caller auth.Caller, productID uuid.UUID, notes *types.LocalizedText) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) UpdateCartNotes(ctx context.Context, caller auth.Caller, notes *types.LocalizedText) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) ApplyDiscount(ctx context.Context, caller auth.Caller, percent decimal.Decimal, description *types.LocalizedText) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, caller auth.Caller) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) ListAll(ctx context.Context, caller auth.Caller) (*cartsvc.Listing, error) {
	return s.listing, s.err
}

func (s *stubCartService) AdminUpdate(ctx context.Context, caller auth.Caller, cartID uuid.UUID, patch cartsvc.AdminPatch) (*models.Cart, error) {
	s.lastPatch = patch
	return s.cart, s.err
}

func (s *stubCartService) AdminDelete(ctx context.Context, caller auth.Caller, cartID uuid.UUID) error {
	s.deleted = cartID
	return s.err
}

func (s *stubCartService) MarkConverted(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (s *stubCartService) View(ctx context.Context, cart *models.Cart) (*cartsvc.View, error) {
	view := &cartsvc.View{Cart: cart, Products: map[uuid.UUID]catalog.ProductSummary{}}
	for _, it := range cart.Items {
		view.Products[it.ProductID] = catalog.ProductSummary{
			ID:    it.ProductID,
			Name:  types.LocalizedText{EN: "Dates", AR: "تمر"},
			Price: it.Price,
			Stock: 5,
		}
	}
	return view, nil
}

func sampleCart() *models.Cart {
	return &models.Cart{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []models.CartItem{
			{ProductID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("10.5")},
		},
		TotalPrice: decimal.RequireFromString("21"),
		Discount:   decimal.NewFromInt(10),
		Status:     enums.CartStatusActive,
	}
}

func authed(req *http.Request, role enums.UserRole) *http.Request {
	ctx := middleware.WithCaller(req.Context(), auth.Caller{UserID: uuid.New(), Role: role})
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func decodeCart(t *testing.T, resp *httptest.ResponseRecorder) cartdto.Cart {
	t.Helper()
	var envelope struct {
		Status string       `json:"status"`
		Data   cartdto.Cart `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Status != "success" {
		t.Fatalf("unexpected status %q", envelope.Status)
	}
	return envelope.Data
}

func TestGetRendersLocalizedCart(t *testing.T) {
	cart := sampleCart()
	handler := Get(&stubCartService{cart: cart}, nil)

	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), enums.UserRoleUser)
	req = req.WithContext(middleware.WithLang(req.Context(), i18n.AR))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	body := decodeCart(t, resp)
	if body.ID != cart.ID {
		t.Fatalf("unexpected cart id %s", body.ID)
	}
	if body.StatusText != "نشط" {
		t.Fatalf("expected arabic status text, got %q", body.StatusText)
	}
	if !body.TotalPriceAfterDiscount.Equal(decimal.RequireFromString("18.9")) {
		t.Fatalf("expected 18.9 after discount, got %s", body.TotalPriceAfterDiscount)
	}
	if len(body.Items) != 1 || body.Items[0].Product == nil || body.Items[0].Product.NameText != "تمر" {
		t.Fatalf("expected localized product projection, got %+v", body.Items)
	}
	if !body.Items[0].LineTotal.Equal(decimal.NewFromInt(21)) {
		t.Fatalf("unexpected line total %s", body.Items[0].LineTotal)
	}
	if body.TotalItems != 2 {
		t.Fatalf("expected 2 items, got %d", body.TotalItems)
	}
}

func TestGetRequiresCaller(t *testing.T) {
	handler := Get(&stubCartService{cart: sampleCart()}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAddItemsPassesInput(t *testing.T) {
	svc := &stubCartService{cart: sampleCart()}
	handler := AddItems(svc, nil)

	productID := uuid.New()
	body := `{"items":[{"product":"` + productID.String() + `","quantity":3,"notes":{"en":"gift"}}],"notes":{"ar":"سريع"}}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(body)), enums.UserRoleUser)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.lastAdd.Items) != 1 || svc.lastAdd.Items[0].ProductID != productID || svc.lastAdd.Items[0].Quantity != 3 {
		t.Fatalf("unexpected input %+v", svc.lastAdd)
	}
	if svc.lastAdd.Items[0].Price != nil {
		t.Fatalf("price should stay nil when omitted")
	}
	if svc.lastAdd.Notes == nil || svc.lastAdd.Notes.AR != "سريع" {
		t.Fatalf("expected cart notes, got %+v", svc.lastAdd.Notes)
	}
}

func TestAddItemsValidation(t *testing.T) {
	handler := AddItems(&stubCartService{cart: sampleCart()}, nil)

	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(`{"items":[{"quantity":0}]}`)), enums.UserRoleUser)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Status  string                 `json:"status"`
		Code    string                 `json:"code"`
		Details []pkgerrors.FieldError `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != "fail" || envelope.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
	if len(envelope.Details) != 2 {
		t.Fatalf("expected product and quantity failures, got %+v", envelope.Details)
	}
	fields := map[string]bool{}
	for _, d := range envelope.Details {
		fields[d.Field] = true
	}
	if !fields["items[0].product"] || !fields["items[0].quantity"] {
		t.Fatalf("unexpected field paths %+v", envelope.Details)
	}
}

func TestAddItemsRejectsProductIDKey(t *testing.T) {
	svc := &stubCartService{cart: sampleCart()}
	handler := AddItems(svc, nil)

	body := `{"items":[{"productId":"` + uuid.NewString() + `","quantity":1}]}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(body)), enums.UserRoleUser)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown item key, got %d", resp.Code)
	}
	if len(svc.lastAdd.Items) != 0 {
		t.Fatalf("service must not be reached, got %+v", svc.lastAdd)
	}
}

func TestUpdateItemQuantityParsesPath(t *testing.T) {
	svc := &stubCartService{cart: sampleCart()}
	handler := UpdateItemQuantity(svc, nil)

	productID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/"+productID.String(), strings.NewReader(`{"quantity":4}`))
	req = withURLParam(authed(req, enums.UserRoleUser), "productId", productID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastProduct != productID || svc.lastQuantity != 4 {
		t.Fatalf("unexpected call %s x%d", svc.lastProduct, svc.lastQuantity)
	}
}

func TestRemoveItemRejectsBadID(t *testing.T) {
	handler := RemoveItem(&stubCartService{cart: sampleCart()}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/nope", nil)
	req = withURLParam(authed(req, enums.UserRoleUser), "productId", "nope")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{pkgerrors.New(pkgerrors.CodeNotFound, "cart not found"), http.StatusNotFound},
		{pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock"), http.StatusBadRequest},
		{pkgerrors.New(pkgerrors.CodeForbidden, "admin only"), http.StatusForbidden},
	}
	for _, tc := range cases {
		handler := Clear(&stubCartService{err: tc.err}, nil)
		req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil), enums.UserRoleUser)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%v: expected %d got %d", tc.err, tc.want, resp.Code)
		}
	}
}

func TestApplyDiscountRequiresValue(t *testing.T) {
	handler := ApplyDiscount(&stubCartService{cart: sampleCart()}, nil)

	req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/cart/discount", strings.NewReader(`{}`)), enums.UserRoleUser)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminListIncludesResultsAndSummary(t *testing.T) {
	c := sampleCart()
	listing := &cartsvc.Listing{
		Carts:   []cartsvc.View{{Cart: c}},
		Summary: cartsvc.Summary{TotalCarts: 1, NonEmptyCarts: 1, TotalQuantity: 2},
	}
	handler := AdminList(&stubCartService{listing: listing}, nil)

	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/cart/admin", nil), enums.UserRoleAdmin)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Results int             `json:"results"`
		Data    cartdto.Listing `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Results != 1 || envelope.Data.Summary.TotalQuantity != 2 {
		t.Fatalf("unexpected listing %+v", envelope)
	}
}

func TestAdminUpdateRejectsUnknownStatus(t *testing.T) {
	svc := &stubCartService{cart: sampleCart()}
	handler := AdminUpdate(svc, nil)

	cartID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/admin/"+cartID.String(), strings.NewReader(`{"status":"lost"}`))
	req = withURLParam(authed(req, enums.UserRoleAdmin), "cartId", cartID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminUpdatePassesItems(t *testing.T) {
	svc := &stubCartService{cart: sampleCart()}
	handler := AdminUpdate(svc, nil)

	cartID := uuid.New()
	productID := uuid.New()
	body := `{"items":[{"product":"` + productID.String() + `","quantity":4,"price":"2.50"}]}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/admin/"+cartID.String(), strings.NewReader(body))
	req = withURLParam(authed(req, enums.UserRoleAdmin), "cartId", cartID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastPatch.Items == nil || len(*svc.lastPatch.Items) != 1 {
		t.Fatalf("expected one item, got %+v", svc.lastPatch.Items)
	}
	item := (*svc.lastPatch.Items)[0]
	if item.ProductID != productID || item.Quantity != 4 || !item.Price.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestAdminDelete(t *testing.T) {
	svc := &stubCartService{}
	handler := AdminDelete(svc, nil)

	cartID := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/admin/"+cartID.String(), nil)
	req = withURLParam(authed(req, enums.UserRoleAdmin), "cartId", cartID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.deleted != cartID {
		t.Fatalf("expected delete of %s, got %s", cartID, svc.deleted)
	}
}
