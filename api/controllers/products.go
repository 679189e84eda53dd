package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luxurystrandhaven/storefront-backend/api/responses"
	"github.com/luxurystrandhaven/storefront-backend/api/validators"
	"github.com/luxurystrandhaven/storefront-backend/internal/catalog"
	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
	"github.com/luxurystrandhaven/storefront-backend/pkg/logger"
)

const (
	maxRefLength    = 200
	maxOptionLength = 120
	maxRelatedCards = 12
)

// ProductView returns the product page payload for a slug or id.
func ProductView(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		ref, err := productRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetProductView(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type resolveRequest struct {
	Selections map[string]string `json:"selections"`
}

// ProductResolve replays the submitted selections and returns the resolver state.
func ProductResolve(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		ref, err := productRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload resolveRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductRef(ctx, ref)
		}
		snapshot, err := svc.Resolve(ctx, ref, validators.SanitizeSelections(payload.Selections, maxOptionLength))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// ProductRelated returns the related product cards, optionally trimmed by
// ?limit=.
func ProductRelated(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		ref, err := productRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", maxRelatedCards, 1, maxRelatedCards)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cards, err := svc.Related(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(cards) > limit {
			cards = cards[:limit]
		}
		responses.WriteSuccess(w, cards)
	}
}

func productRef(r *http.Request) (string, error) {
	ref := validators.SanitizeString(chi.URLParam(r, "ref"), maxRefLength)
	if ref == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product reference is required")
	}
	return ref, nil
}

// ProductInvalidate drops the cached product view so the next read hits the
// database. Only mounted outside production.
func ProductInvalidate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		ref, err := productRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.InvalidateProduct(r.Context(), ref); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
