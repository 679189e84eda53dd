package middleware

import (
	"fmt"
	"net/http"

	"github.com/luxurystrandhaven/storefront-backend/api/responses"
	pkgerrors "github.com/luxurystrandhaven/storefront-backend/pkg/errors"
	"github.com/luxurystrandhaven/storefront-backend/pkg/logger"
)

// Recoverer turns a handler panic into a 500 envelope. If the handler had
// already started the response only the log line is written.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				err := fmt.Errorf("panic: %v", v)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":           fmt.Sprint(v),
						"method":          r.Method,
						"path":            r.URL.Path,
						"headers_flushed": rec.Written(),
					})
				}
				if rec.Written() {
					if logg != nil {
						logg.Error(ctx, "panic.recovered", err)
					}
					return
				}
				responses.WriteError(ctx, logg, rec, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
