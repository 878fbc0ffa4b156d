package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/bazaar-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/bazaar-backend/api/controllers/cart"
	ordercontrollers "github.com/angelmondragon/bazaar-backend/api/controllers/orders"
	"github.com/angelmondragon/bazaar-backend/api/middleware"
	"github.com/angelmondragon/bazaar-backend/api/responses"
	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/orders"
	"github.com/angelmondragon/bazaar-backend/pkg/auth/session"
	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/metrics"
	"github.com/angelmondragon/bazaar-backend/pkg/redis"
)

// Dependencies are the collaborators the HTTP surface is built from.
// Redis, Sessions and Gatherer are optional.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	Cart        cart.Service
	Orders      orders.Service
	Readiness   []controllers.Dependency
}

func NewRouter(deps Dependencies) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	// keep nil interfaces nil so the middleware can skip redis entirely
	var (
		idempotencyStore redis.IdempotencyStore
		limiter          redis.RateLimiter
	)
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
		limiter = deps.Redis
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
		middleware.Language(logg),
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness...))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	admin := middleware.RequireRole(enums.UserRoleAdmin, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RateLimit(middleware.PerMinute(cfg.RateLimit.PerMinute), limiter, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Get(deps.Cart, logg))
			r.Post("/", cartcontrollers.AddItems(deps.Cart, logg))
			r.Delete("/", cartcontrollers.Clear(deps.Cart, logg))
			r.Patch("/notes", cartcontrollers.UpdateNotes(deps.Cart, logg))
			r.Patch("/discount", cartcontrollers.ApplyDiscount(deps.Cart, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(admin)
				r.Get("/", cartcontrollers.AdminList(deps.Cart, logg))
				r.Patch("/{cartId}", cartcontrollers.AdminUpdate(deps.Cart, logg))
				r.Delete("/{cartId}", cartcontrollers.AdminDelete(deps.Cart, logg))
			})

			r.Patch("/{productId}", cartcontrollers.UpdateItemQuantity(deps.Cart, logg))
			r.Delete("/{productId}", cartcontrollers.RemoveItem(deps.Cart, logg))
			r.Patch("/{productId}/notes", cartcontrollers.UpdateItemNotes(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordercontrollers.Create(deps.Orders, logg))
			r.Get("/myorders", ordercontrollers.ListMine(deps.Orders, logg))
			r.With(admin).Get("/admin", ordercontrollers.AdminList(deps.Orders, logg))
			r.With(admin).Get("/all", ordercontrollers.AdminList(deps.Orders, logg))
			r.With(admin).Get("/user/{userId}", ordercontrollers.ListByOwner(deps.Orders, logg))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", ordercontrollers.Get(deps.Orders, logg))
				r.Patch("/", ordercontrollers.Update(deps.Orders, logg))
				r.With(admin).Delete("/", ordercontrollers.Delete(deps.Orders, logg))
				r.Patch("/cancel", ordercontrollers.Cancel(deps.Orders, logg))
				r.Patch("/pay", ordercontrollers.MarkPaid(deps.Orders, logg))
				r.Patch("/notes", ordercontrollers.UpdateNotes(deps.Orders, logg))
				r.With(admin).Patch("/status", ordercontrollers.TransitionStatus(deps.Orders, logg))
				r.With(admin).Patch("/payment", ordercontrollers.UpdatePaymentStatus(deps.Orders, logg))
			})
		})
	})

	return r
}
