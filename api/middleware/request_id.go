package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/luxurystrandhaven/storefront-backend/pkg/logger"
)

const (
	requestIDHeader    = "X-Request-Id"
	maxRequestIDLength = 64
)

// RequestID accepts a caller supplied X-Request-Id when it is short and
// printable, otherwise mints one. The id is echoed and put on the context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if !validToken(reqID, maxRequestIDLength) {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := context.WithValue(r.Context(), ctxRequestID, reqID)
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validToken rejects empty, oversized, or non-printable header values and
// anything containing the redis key separator.
func validToken(v string, maxLen int) bool {
	if v == "" || len(v) > maxLen {
		return false
	}
	for _, c := range v {
		if c <= ' ' || c > '~' || c == ':' {
			return false
		}
	}
	return true
}
