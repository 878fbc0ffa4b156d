package cart

import (
	"net/http"

	"github.com/angelmondragon/bazaar-backend/api/middleware"
	"github.com/angelmondragon/bazaar-backend/api/responses"
	"github.com/angelmondragon/bazaar-backend/api/validators"
	cartsvc "github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
)

// Get returns the caller's active cart, creating an empty one on first use.
func Get(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return mutate(svc, logg, http.StatusOK, func(r *http.Request, caller auth.Caller) (*models.Cart, error) {
		return svc.GetOrCreate(r.Context(), caller)
	})
}

func AddItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return mutate(svc, logg, http.StatusCreated, func(r *http.Request, caller auth.Caller) (*models.Cart, error) {
		var payload addItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.AddItems(r.Context(), caller, payload.toInput())
	})
}

func RemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return mutate(svc, logg, http.StatusOK, func(r *http.Request, caller auth.Caller) (*models.Cart, error) {
		productID, err := validators.URLParamUUID(r, "productId")
		if err != nil {
			return nil, err
		}
		return svc.RemoveItem(r.Context(), caller, productID)
	})
}

func UpdateItemQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return mutate(svc, logg, http.StatusOK, func(r *http.Request, caller auth.Caller) (*models.Cart, error) {
		productID, err := validators.URLParamUUID(r, "productId")
		if err != nil {
			return nil, err
		}
		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateItemQuantity(r.Context(), caller, productID, payload.Quantity)
	})
}

func UpdateItemNotes(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return mutate(svc, logg, http.StatusOK, func(r *http.Request, caller auth.Caller) (*models.Cart, error) {
		productID, err := validators.URLParamUUID(r, "productId")
		if err != nil {
			return nil, err
		}
		var payload notesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateItemNotes(r.Context(), caller, productID, payload.Notes)
	})
}

func UpdateNotes(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return mutate(svc, logg, http.StatusOK, func(r *http.Request, caller auth.Caller) (*models.Cart, error) {
		var payload notesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateCartNotes(r.Context(), caller, payload.Notes)
	})
}

func ApplyDiscount(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return mutate(svc, logg, http.StatusOK, func(r *http.Request, caller auth.Caller) (*models.Cart, error) {
		var payload discountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.ApplyDiscount(r.Context(), caller, *payload.Discount, payload.DiscountDescription)
	})
}

func Clear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return mutate(svc, logg, http.StatusOK, func(r *http.Request, caller auth.Caller) (*models.Cart, error) {
		return svc.Clear(r.Context(), caller)
	})
}

type cartOp func(r *http.Request, caller auth.Caller) (*models.Cart, error)

// mutate runs op for the authenticated caller and renders the resulting cart.
func mutate(svc cartsvc.Service, logg *logger.Logger, status int, op cartOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		caller, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := op(r, caller)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.View(r.Context(), cart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, status, newCartResponse(view, middleware.LangFromContext(r.Context())))
	}
}

func callerFromRequest(r *http.Request) (auth.Caller, error) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		return auth.Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return caller, nil
}
