package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luxurystrandhaven/storefront-backend/api/middleware"
	"github.com/luxurystrandhaven/storefront-backend/api/responses"
	"github.com/luxurystrandhaven/storefront-backend/api/validators"
	"github.com/luxurystrandhaven/storefront-backend/internal/cart"
	"github.com/luxurystrandhaven/storefront-backend/internal/catalog"
	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
	"github.com/luxurystrandhaven/storefront-backend/pkg/logger"
)

type addCartItemRequest struct {
	Product    string            `json:"product" validate:"required,max=200"`
	Selections map[string]string `json:"selections"`
	Quantity   int               `json:"quantity" validate:"gte=1,lte=1000"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=1000"`
}

// CartFetch returns the session cart.
func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, svc, logg)
		if !ok {
			return
		}
		view, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddItem resolves the submitted selections and adds the resulting line.
func CartAddItem(svc cart.Service, products catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, svc, logg)
		if !ok {
			return
		}
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ref := validators.SanitizeString(payload.Product, maxRefLength)
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductRef(ctx, ref)
		}
		line, err := products.BuildCartLine(ctx, ref, validators.SanitizeSelections(payload.Selections, maxOptionLength), payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Add(ctx, sessionID, *line)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// CartUpdateItem sets a line's quantity. Zero removes the line.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, svc, logg)
		if !ok {
			return
		}
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateQuantity(r.Context(), sessionID, chi.URLParam(r, "lineId"), payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem drops a single line.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, svc, logg)
		if !ok {
			return
		}
		view, err := svc.Remove(r.Context(), sessionID, chi.URLParam(r, "lineId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartClear empties the session cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireCartSession(w, r, svc, logg)
		if !ok {
			return
		}
		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func requireCartSession(w http.ResponseWriter, r *http.Request, svc cart.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return "", false
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
		return "", false
	}
	return sessionID, true
}
