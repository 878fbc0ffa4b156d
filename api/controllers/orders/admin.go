package orders

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/bazaar-backend/api/middleware"
	"github.com/angelmondragon/bazaar-backend/api/responses"
	"github.com/angelmondragon/bazaar-backend/api/validators"
	internalorders "github.com/angelmondragon/bazaar-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/pagination"
)

const maxPage = 100000

// AdminList pages through all orders. Supported filters: status, paymentStatus, userId, isActive.
func AdminList(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
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

		query, err := parseListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListAll(r.Context(), caller, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		related, err := svc.Related(r.Context(), page.Orders...)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, len(page.Orders), newPageResponse(page, related, middleware.LangFromContext(r.Context())))
	}
}

// ListByOwner returns every order of one user for admins.
func ListByOwner(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
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
		ownerID, err := validators.URLParamUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.ListByOwner(r.Context(), caller, ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		related, err := svc.Related(r.Context(), listing.Orders...)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, len(listing.Orders), newOwnerListingResponse(listing, related, middleware.LangFromContext(r.Context())))
	}
}

func Delete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
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
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), caller, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

func parseListQuery(r *http.Request) (internalorders.ListQuery, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPage)
	if err != nil {
		return internalorders.ListQuery{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return internalorders.ListQuery{}, err
	}
	ownerID, err := validators.ParseQueryUUID(r, "userId")
	if err != nil {
		return internalorders.ListQuery{}, err
	}
	isActive, err := validators.ParseQueryBool(r, "isActive")
	if err != nil {
		return internalorders.ListQuery{}, err
	}

	q := r.URL.Query()
	return internalorders.ListQuery{
		Status:        strings.TrimSpace(q.Get("status")),
		PaymentStatus: strings.TrimSpace(q.Get("paymentStatus")),
		OwnerID:       ownerID,
		IsActive:      isActive,
		Page:          page,
		Limit:         limit,
	}, nil
}
