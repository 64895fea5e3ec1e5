package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mercatohq/pricing-service/api/controllers"
	"github.com/mercatohq/pricing-service/api/middleware"
	"github.com/mercatohq/pricing-service/internal/pricing"
	"github.com/mercatohq/pricing-service/pkg/config"
	"github.com/mercatohq/pricing-service/pkg/db"
	"github.com/mercatohq/pricing-service/pkg/logger"
	"github.com/mercatohq/pricing-service/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	pricingService pricing.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/prices", func(r chi.Router) {
		r.Post("/resolve", controllers.ResolvePrice(pricingService, logg))
		r.Post("/resolve-bulk", controllers.ResolveBulk(pricingService, logg))
		r.Post("/tiers", controllers.PriceTiers(pricingService, logg))
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.Route("/price-records", func(r chi.Router) {
			r.Get("/", controllers.AdminListPriceRecords(pricingService, logg))
			r.Post("/", controllers.AdminCreatePriceRecord(pricingService, logg))
			r.Put("/{id}", controllers.AdminUpdatePriceRecord(pricingService, logg))
			r.Delete("/{id}", controllers.AdminDeletePriceRecord(pricingService, logg))
		})
		r.Route("/catalogs", func(r chi.Router) {
			r.Post("/", controllers.AdminSaveCatalog(pricingService, logg))
			r.Put("/{id}", controllers.AdminSaveCatalog(pricingService, logg))
		})
	})

	return r
}
