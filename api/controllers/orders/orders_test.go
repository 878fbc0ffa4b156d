package orders

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

	ordersdto "github.com/angelmondragon/bazaar-backend/api/controllers/orders/dto"
	"github.com/angelmondragon/bazaar-backend/api/middleware"
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	internalorders "github.com/angelmondragon/bazaar-backend/internal/orders"
	"github.com/angelmondragon/bazaar-backend/internal/users"
	"github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/i18n"
	"github.com/angelmondragon/bazaar-backend/pkg/pagination"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

type stubOrderService struct {
	order   *models.Order
	err     error
	page    *internalorders.Page
	listing *internalorders.OwnerListing

	lastCreate internalorders.CreateInput
	lastUpdate internalorders.UpdateInput
	lastQuery  internalorders.ListQuery
	lastStatus string
	lastID     uuid.UUID
	calls      []string
}

func (s *stubOrderService) record(call string, id uuid.UUID) {
	s.calls = append(s.calls, call)
	s.lastID = id
}

func (s *stubOrderService) Create(ctx context.Context, caller auth.Caller, input internalorders.CreateInput) (*models.Order, error) {
	s.lastCreate = input
	return s.order, s.err
}

func (s *stubOrderService) Get(ctx context.Context, caller auth.Caller, orderID uuid.UUID) (*models.Order, error) {
	s.record("get", orderID)
	return s.order, s.err
}

func (s *stubOrderService) TransitionStatus(ctx context.Context, caller auth.Caller, orderID uuid.UUID, status string) (*models.Order, error) {
	s.record("status", orderID)
	s.lastStatus = status
	return s.order, s.err
}

func (s *stubOrderService) MarkPaid(ctx context.Context, caller auth.Caller, orderID uuid.UUID) (*models.Order, error) {
	s.record("pay", orderID)
	return s.order, s.err
}

func (s *stubOrderService) UpdatePaymentStatus(ctx context.Context, caller auth.Caller, orderID uuid.UUID, paymentStatus string) (*models.Order, error) {
	s.record("payment", orderID)
	s.lastStatus = paymentStatus
	return s.order, s.err
}

func (s *stubOrderService) Cancel(ctx context.Context, caller auth.Caller, orderID uuid.UUID) (*models.Order, error) {
	s.record("cancel", orderID)
	return s.order, s.err
}

func (s *stubOrderService) UpdateOrder(ctx context.Context, caller auth.Caller, orderID uuid.UUID, input internalorders.UpdateInput) (*models.Order, error) {
	s.record("update", orderID)
	s.lastUpdate = input
	return s.order, s.err
}

func (s *stubOrderService) UpdateNotes(ctx context.Context, caller auth.Caller, orderID uuid.UUID, notes *types.LocalizedText) (*models.Order, error) {
	s.record("notes", orderID)
	return s.order, s.err
}

func (s *stubOrderService) Delete(ctx context.Context, caller auth.Caller, orderID uuid.UUID) error {
	s.record("delete", orderID)
	return s.err
}

func (s *stubOrderService) ListAll(ctx context.Context, caller auth.Caller, query internalorders.ListQuery) (*internalorders.Page, error) {
	s.lastQuery = query
	return s.page, s.err
}

func (s *stubOrderService) ListMine(ctx context.Context, caller auth.Caller) (*internalorders.OwnerListing, error) {
	return s.listing, s.err
}

func (s *stubOrderService) ListByOwner(ctx context.Context, caller auth.Caller, ownerID uuid.UUID) (*internalorders.OwnerListing, error) {
	s.record("by_owner", ownerID)
	return s.listing, s.err
}

func (s *stubOrderService) Related(ctx context.Context, orders ...models.Order) (*internalorders.Related, error) {
	related := &internalorders.Related{
		Products:  map[uuid.UUID]catalog.ProductSummary{},
		Customers: map[uuid.UUID]users.Profile{},
	}
	for _, o := range orders {
		related.Customers[o.UserID] = users.Profile{ID: o.UserID, FirstName: "Layla", LastName: "Haddad", Email: "layla@example.com"}
		for _, it := range o.Items {
			related.Products[it.ProductID] = catalog.ProductSummary{ID: it.ProductID, Name: types.LocalizedText{EN: "Coffee", AR: "قهوة"}}
		}
	}
	return related, nil
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []models.OrderItem{
			{ProductID: uuid.New(), Quantity: 3, Price: decimal.NewFromInt(5)},
		},
		TotalOrderPrice: decimal.NewFromInt(15),
		ShippingAddress: types.ShippingAddress{
			Address:    types.LocalizedText{EN: "1 Palm St", AR: "١ شارع النخيل"},
			City:       types.LocalizedText{EN: "Riyadh", AR: "الرياض"},
			Country:    types.LocalizedText{EN: "Saudi Arabia"},
			PostalCode: "12211",
		},
		Status:        enums.OrderStatusPending,
		PaymentMethod: enums.PaymentMethodCash,
		PaymentStatus: enums.PaymentStatusPending,
		IsActive:      true,
	}
}

func authed(req *http.Request, role enums.UserRole, lang i18n.Lang) *http.Request {
	ctx := middleware.WithCaller(req.Context(), auth.Caller{UserID: uuid.New(), Role: role})
	return req.WithContext(middleware.WithLang(ctx, lang))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCreateReturnsLocalizedOrder(t *testing.T) {
	order := sampleOrder()
	svc := &stubOrderService{order: order}
	handler := Create(svc, nil)

	body := `{
		"items":[{"product":"` + order.Items[0].ProductID.String() + `","quantity":3,"price":5}],
		"shippingAddress":{"address":{"en":"1 Palm St"},"city":{"ar":"الرياض"},"country":{"en":"Saudi Arabia"},"postalCode":"12211"},
		"paymentMethod":"cash",
		"totalOrderPrice":"15.00"
	}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body)), enums.UserRoleUser, i18n.AR)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data ordersdto.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := envelope.Data
	if got.StatusText != "قيد الانتظار" || got.PaymentMethodText != "نقدي" {
		t.Fatalf("expected arabic display fields, got %q %q", got.StatusText, got.PaymentMethodText)
	}
	if got.ShippingAddressText.City != "الرياض" || got.ShippingAddressText.Country != "Saudi Arabia" {
		t.Fatalf("unexpected address text %+v", got.ShippingAddressText)
	}
	if got.TotalItems != 3 || got.Customer == nil || got.Customer.FirstName != "Layla" {
		t.Fatalf("expected totals and customer projection, got %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Product == nil || got.Items[0].Product.NameText != "قهوة" {
		t.Fatalf("expected product projection, got %+v", got.Items)
	}

	if svc.lastCreate.ClaimedTotal == nil || !svc.lastCreate.ClaimedTotal.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected claimed total passed through, got %v", svc.lastCreate.ClaimedTotal)
	}
	if svc.lastCreate.ShippingAddress.PostalCode != "12211" {
		t.Fatalf("unexpected address %+v", svc.lastCreate.ShippingAddress)
	}
}

func TestCreateRequiresItemPrice(t *testing.T) {
	handler := Create(&stubOrderService{order: sampleOrder()}, nil)

	body := `{"items":[{"product":"` + uuid.NewString() + `","quantity":1}],"paymentMethod":"cheque"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body)), enums.UserRoleUser, i18n.EN)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Details []pkgerrors.FieldError `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	fields := map[string]bool{}
	for _, d := range envelope.Details {
		fields[d.Field] = true
	}
	if !fields["items[0].price"] || !fields["paymentMethod"] {
		t.Fatalf("expected price and paymentMethod failures, got %+v", envelope.Details)
	}
}

func TestByIDRoutesDispatch(t *testing.T) {
	cases := []struct {
		name    string
		handler func(internalorders.Service) http.HandlerFunc
		body    string
		call    string
	}{
		{"get", func(s internalorders.Service) http.HandlerFunc { return Get(s, nil) }, "", "get"},
		{"cancel", func(s internalorders.Service) http.HandlerFunc { return Cancel(s, nil) }, "", "cancel"},
		{"pay", func(s internalorders.Service) http.HandlerFunc { return MarkPaid(s, nil) }, "", "pay"},
		{"notes", func(s internalorders.Service) http.HandlerFunc { return UpdateNotes(s, nil) }, `{"notes":{"en":"leave at door"}}`, "notes"},
		{"status", func(s internalorders.Service) http.HandlerFunc { return TransitionStatus(s, nil) }, `{"status":"shipped"}`, "status"},
		{"payment", func(s internalorders.Service) http.HandlerFunc { return UpdatePaymentStatus(s, nil) }, `{"paymentStatus":"refunded"}`, "payment"},
		{"update", func(s internalorders.Service) http.HandlerFunc { return Update(s, nil) }, `{"isActive":false}`, "update"},
	}
	for _, tc := range cases {
		svc := &stubOrderService{order: sampleOrder()}
		id := uuid.New()
		var body *strings.Reader
		if tc.body == "" {
			body = strings.NewReader("")
		} else {
			body = strings.NewReader(tc.body)
		}
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+id.String(), body)
		req = withURLParam(authed(req, enums.UserRoleAdmin, i18n.EN), "id", id.String())
		resp := httptest.NewRecorder()
		tc.handler(svc).ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d: %s", tc.name, resp.Code, resp.Body.String())
		}
		if len(svc.calls) != 1 || svc.calls[0] != tc.call || svc.lastID != id {
			t.Fatalf("%s: unexpected calls %v for %s", tc.name, svc.calls, svc.lastID)
		}
	}
}

func TestUpdatePassesAdminFields(t *testing.T) {
	svc := &stubOrderService{order: sampleOrder()}
	id := uuid.New()
	body := `{"status":"processing","paymentStatus":"paid","shippingAddress":{"postalCode":"99999"}}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+id.String(), strings.NewReader(body))
	req = withURLParam(authed(req, enums.UserRoleAdmin, i18n.EN), "id", id.String())
	resp := httptest.NewRecorder()
	Update(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	in := svc.lastUpdate
	if in.Status == nil || *in.Status != "processing" || in.PaymentStatus == nil || *in.PaymentStatus != "paid" {
		t.Fatalf("unexpected admin fields %+v", in)
	}
	if in.ShippingAddress == nil || in.ShippingAddress.PostalCode == nil || *in.ShippingAddress.PostalCode != "99999" {
		t.Fatalf("unexpected address patch %+v", in.ShippingAddress)
	}
	if in.Items != nil {
		t.Fatalf("items must stay nil when omitted")
	}
}

func TestUpdatePassesItems(t *testing.T) {
	svc := &stubOrderService{order: sampleOrder()}
	id := uuid.New()
	productID := uuid.New()
	body := `{"items":[{"product":"` + productID.String() + `","quantity":2,"price":10}]}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+id.String(), strings.NewReader(body))
	req = withURLParam(authed(req, enums.UserRoleUser, i18n.EN), "id", id.String())
	resp := httptest.NewRecorder()
	Update(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	items := svc.lastUpdate.Items
	if items == nil || len(*items) != 1 {
		t.Fatalf("expected one item, got %+v", items)
	}
	got := (*items)[0]
	if got.ProductID != productID || got.Quantity != 2 || got.Price == nil || !got.Price.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected item %+v", got)
	}
}

func TestForbiddenFromService(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeForbidden, "cannot update an order that is shipped")}
	id := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+id.String()+"/cancel", nil)
	req = withURLParam(authed(req, enums.UserRoleUser, i18n.EN), "id", id.String())
	resp := httptest.NewRecorder()
	Cancel(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminListParsesQuery(t *testing.T) {
	order := sampleOrder()
	svc := &stubOrderService{page: &internalorders.Page{
		Orders:     []models.Order{*order},
		Pagination: pagination.BuildMeta(pagination.Params{Page: 2, Limit: 1}, 3),
		Summary: internalorders.ListSummary{
			TotalRevenue:      decimal.NewFromInt(45),
			AverageOrderValue: decimal.NewFromInt(15),
		},
	}}

	owner := uuid.New()
	url := "/api/v1/orders/admin?page=2&limit=1&status=pending&paymentStatus=paid&isActive=true&userId=" + owner.String()
	req := authed(httptest.NewRequest(http.MethodGet, url, nil), enums.UserRoleAdmin, i18n.EN)
	resp := httptest.NewRecorder()
	AdminList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	q := svc.lastQuery
	if q.Page != 2 || q.Limit != 1 || q.Status != "pending" || q.PaymentStatus != "paid" {
		t.Fatalf("unexpected query %+v", q)
	}
	if q.OwnerID == nil || *q.OwnerID != owner || q.IsActive == nil || !*q.IsActive {
		t.Fatalf("unexpected owner/isActive filters %+v", q)
	}

	var envelope struct {
		Results int            `json:"results"`
		Data    ordersdto.Page `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Results != 1 || envelope.Data.Pagination.TotalPages != 3 || !envelope.Data.Pagination.HasNextPage {
		t.Fatalf("unexpected page %+v", envelope)
	}
	if !envelope.Data.Summary.AverageOrderValue.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("unexpected summary %+v", envelope.Data.Summary)
	}
}

func TestAdminListRejectsBadLimit(t *testing.T) {
	svc := &stubOrderService{}
	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/orders/admin?limit=1000", nil), enums.UserRoleAdmin, i18n.EN)
	resp := httptest.NewRecorder()
	AdminList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListMineAndByOwner(t *testing.T) {
	order := sampleOrder()
	listing := &internalorders.OwnerListing{
		Orders:  []models.Order{*order},
		Summary: internalorders.OwnerSummary{TotalOrders: 1, TotalRevenue: decimal.NewFromInt(15)},
	}
	svc := &stubOrderService{listing: listing}

	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/orders/myorders", nil), enums.UserRoleUser, i18n.EN)
	resp := httptest.NewRecorder()
	ListMine(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Results int                    `json:"results"`
		Data    ordersdto.OwnerListing `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Results != 1 || envelope.Data.Summary.TotalOrders != 1 {
		t.Fatalf("unexpected listing %+v", envelope)
	}

	owner := uuid.New()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders/user/"+owner.String(), nil)
	req = withURLParam(authed(req, enums.UserRoleAdmin, i18n.EN), "userId", owner.String())
	resp = httptest.NewRecorder()
	ListByOwner(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || svc.lastID != owner {
		t.Fatalf("expected listing for %s, got %d %s", owner, resp.Code, svc.lastID)
	}
}

func TestDeleteOrder(t *testing.T) {
	svc := &stubOrderService{}
	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders/"+id.String(), nil)
	req = withURLParam(authed(req, enums.UserRoleAdmin, i18n.EN), "id", id.String())
	resp := httptest.NewRecorder()
	Delete(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || svc.lastID != id {
		t.Fatalf("expected delete of %s, got %d", id, resp.Code)
	}
}
