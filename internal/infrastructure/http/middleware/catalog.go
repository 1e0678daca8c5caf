package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/response"
)

// ErrCatalogLoading is returned to storefront requests that arrive before the first
// product list is installed.
var ErrCatalogLoading = errors.New("catalog is still loading")

// CatalogReady answers 503 with Retry-After until ready reports true.
func CatalogReady(ready func() bool, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ready() {
				logger.DebugContext(r.Context(), "Request rejected while catalog loads",
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				response.Error(w, http.StatusServiceUnavailable, ErrCatalogLoading)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
