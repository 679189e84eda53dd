package controllers

import (
	"net/http"

	"github.com/luxurystrandhaven/storefront-backend/api/responses"
	"github.com/luxurystrandhaven/storefront-backend/internal/settings"
)

// PublicSettings exposes the storefront settings snapshot loaded at startup.
func PublicSettings(s settings.Settings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, s.All())
	}
}
