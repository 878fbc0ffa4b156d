package orders

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/bazaar-backend/api/middleware"
	"github.com/angelmondragon/bazaar-backend/api/responses"
	"github.com/angelmondragon/bazaar-backend/api/validators"
	internalorders "github.com/angelmondragon/bazaar-backend/internal/orders"
	"github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
)

// Create places an order for the caller and closes their active cart.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return single(svc, logg, http.StatusCreated, func(r *http.Request, caller auth.Caller) (*models.Order, error) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.Create(r.Context(), caller, payload.toInput())
	})
}

func Get(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(svc, logg, func(r *http.Request, caller auth.Caller, id uuid.UUID) (*models.Order, error) {
		return svc.Get(r.Context(), caller, id)
	})
}

func Update(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(svc, logg, func(r *http.Request, caller auth.Caller, id uuid.UUID) (*models.Order, error) {
		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateOrder(r.Context(), caller, id, payload.toInput())
	})
}

func Cancel(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(svc, logg, func(r *http.Request, caller auth.Caller, id uuid.UUID) (*models.Order, error) {
		return svc.Cancel(r.Context(), caller, id)
	})
}

func MarkPaid(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(svc, logg, func(r *http.Request, caller auth.Caller, id uuid.UUID) (*models.Order, error) {
		return svc.MarkPaid(r.Context(), caller, id)
	})
}

func UpdateNotes(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(svc, logg, func(r *http.Request, caller auth.Caller, id uuid.UUID) (*models.Order, error) {
		var payload notesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateNotes(r.Context(), caller, id, payload.Notes)
	})
}

func TransitionStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(svc, logg, func(r *http.Request, caller auth.Caller, id uuid.UUID) (*models.Order, error) {
		var payload statusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.TransitionStatus(r.Context(), caller, id, payload.Status)
	})
}

func UpdatePaymentStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID(svc, logg, func(r *http.Request, caller auth.Caller, id uuid.UUID) (*models.Order, error) {
		var payload paymentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdatePaymentStatus(r.Context(), caller, id, payload.PaymentStatus)
	})
}

// ListMine returns every order of the caller with the owner summary.
func ListMine(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		caller, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.ListMine(r.Context(), caller)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		related, err := svc.Related(r.Context(), listing.Orders...)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lang := middleware.LangFromContext(r.Context())
		responses.WriteList(w, len(listing.Orders), newOwnerListingResponse(listing, related, lang))
	}
}

type orderOp func(r *http.Request, caller auth.Caller) (*models.Order, error)

type orderByIDOp func(r *http.Request, caller auth.Caller, id uuid.UUID) (*models.Order, error)

func byID(svc internalorders.Service, logg *logger.Logger, op orderByIDOp) http.HandlerFunc {
	return single(svc, logg, http.StatusOK, func(r *http.Request, caller auth.Caller) (*models.Order, error) {
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			return nil, err
		}
		return op(r, caller, id)
	})
}

// single runs op and renders the resulting order with its related projections.
func single(svc internalorders.Service, logg *logger.Logger, status int, op orderOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		caller, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := op(r, caller)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		related, err := svc.Related(r.Context(), *order)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, status, newOrderResponse(*order, related, middleware.LangFromContext(r.Context())))
	}
}

func callerFromRequest(r *http.Request) (auth.Caller, error) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		return auth.Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return caller, nil
}
