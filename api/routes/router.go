package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplane/cartsync-backend/api/controllers"
	cartcontrollers "github.com/shoplane/cartsync-backend/api/controllers/cart"
	"github.com/shoplane/cartsync-backend/api/middleware"
	"github.com/shoplane/cartsync-backend/internal/cart"
	"github.com/shoplane/cartsync-backend/pkg/config"
	"github.com/shoplane/cartsync-backend/pkg/db"
	"github.com/shoplane/cartsync-backend/pkg/logger"
	"github.com/shoplane/cartsync-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisP redis.Pinger,
	dbP db.Pinger,
	limiter middleware.RateLimiter,
	cartService cart.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisP, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Session(cfg.JWT, logg))
		r.Use(middleware.RateLimit(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, logg))

		r.Get("/", cartcontrollers.CartFetch(cartService, logg))
		r.Get("/lookup", cartcontrollers.CartLookup(cartService, logg))
		r.Post("/reconcile", cartcontrollers.CartReconcile(cartService, logg))
		r.Route("/items", func(r chi.Router) {
			r.Post("/", cartcontrollers.CartAddItem(cartService, logg))
			r.Delete("/", cartcontrollers.CartClear(cartService, logg))
			r.Put("/{itemId}", cartcontrollers.CartUpdateItem(cartService, logg))
			r.Delete("/{itemId}", cartcontrollers.CartRemoveItem(cartService, logg))
		})
	})

	return r
}
