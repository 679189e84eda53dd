package controllers

import (
	"net/http"

	"github.com/luxurystrandhaven/storefront-backend/api/responses"
)

// PublicPing reports liveness along with the instance serving the request.
func PublicPing(instanceID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok", "instance": instanceID})
	}
}
