package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/orders"
	"github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/metrics"
)

type stubCartService struct {
	cart.Service
	userID uuid.UUID
}

func (s stubCartService) GetOrCreate(ctx context.Context, caller auth.Caller) (*models.Cart, error) {
	return &models.Cart{
		ID:         uuid.New(),
		UserID:     caller.UserID,
		TotalPrice: decimal.Zero,
		Discount:   decimal.Zero,
		Status:     enums.CartStatusActive,
	}, nil
}

func (s stubCartService) View(ctx context.Context, c *models.Cart) (*cart.View, error) {
	return &cart.View{Cart: c}, nil
}

type stubOrderService struct {
	orders.Service
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-secret",
			Issuer:            "bazaar-test",
			ExpirationMinutes: 10,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	return NewRouter(Dependencies{
		Config:      cfg,
		Logger:      logger.Nop(),
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
		Cart:        stubCartService{},
		Orders:      stubOrderService{},
	}), cfg
}

func bearer(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthLive(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Bazaar-Env"))
}

func TestHealthReadyWithoutDependencies(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpointExposesHTTPSeries(t *testing.T) {
	router, _ := newTestRouter(t)
	serve(router, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/health/live")
}

func TestCartRequiresAuthentication(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}

func TestCartGetReturnsActiveCart(t *testing.T) {
	router, cfg := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart?lang=ar", nil)
	req.Header.Set("Authorization", bearer(t, cfg, enums.UserRoleUser))

	rec := serve(router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ar", rec.Header().Get("Content-Language"))
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "success", body["status"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "active", data["status"])
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	router, cfg := newTestRouter(t)
	orderID := uuid.NewString()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart/admin"},
		{http.MethodDelete, "/api/v1/cart/admin/" + uuid.NewString()},
		{http.MethodGet, "/api/v1/orders/admin"},
		{http.MethodGet, "/api/v1/orders/all"},
		{http.MethodGet, "/api/v1/orders/user/" + uuid.NewString()},
		{http.MethodDelete, "/api/v1/orders/" + orderID},
		{http.MethodPatch, "/api/v1/orders/" + orderID + "/status"},
		{http.MethodPatch, "/api/v1/orders/" + orderID + "/payment"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", bearer(t, cfg, enums.UserRoleUser))

			rec := serve(router, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestUnknownRouteReturnsNotFoundEnvelope(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "NOT_FOUND", body["code"])
}
