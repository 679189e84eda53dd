package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/luxurystrandhaven/storefront-backend/pkg/logger"
)

// SessionHeader carries the anonymous cart session between requests.
const SessionHeader = "X-Cart-Session"

const maxSessionLength = 128

// Session reads the cart session header, minting a new one when absent or
// malformed, and echoes it on the response.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
			if !validToken(sessionID, maxSessionLength) {
				sessionID = uuid.NewString()
			}

			w.Header().Set(SessionHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
