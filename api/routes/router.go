package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luxurystrandhaven/storefront-backend/api/controllers"
	"github.com/luxurystrandhaven/storefront-backend/api/middleware"
	"github.com/luxurystrandhaven/storefront-backend/internal/cart"
	"github.com/luxurystrandhaven/storefront-backend/internal/catalog"
	"github.com/luxurystrandhaven/storefront-backend/internal/settings"
	"github.com/luxurystrandhaven/storefront-backend/pkg/config"
	"github.com/luxurystrandhaven/storefront-backend/pkg/instance"
	"github.com/luxurystrandhaven/storefront-backend/pkg/logger"
)

// Deps bundles what the HTTP surface needs.
type Deps struct {
	Health         map[string]controllers.Pinger
	Observer       middleware.RequestObserver
	MetricsHandler http.Handler
	Catalog        catalog.Service
	Cart           cart.Service
	Settings       settings.Settings
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Observer),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Health))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing(instance.GetID()))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/settings", controllers.PublicSettings(deps.Settings))

		r.Route("/products/{ref}", func(r chi.Router) {
			r.Get("/", controllers.ProductView(deps.Catalog, logg))
			r.Post("/resolve", controllers.ProductResolve(deps.Catalog, logg))
			r.Get("/related", controllers.ProductRelated(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, deps.Catalog, logg))
			r.Patch("/items/{lineId}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveItem(deps.Cart, logg))
		})
	})

	if !cfg.App.IsProd() {
		r.Delete("/api/dev/products/{ref}/cache", controllers.ProductInvalidate(deps.Catalog, logg))
	}

	return r
}
