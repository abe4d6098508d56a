package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/config"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/service"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/pkg/health"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/pkg/middleware"
)

// facetCacheMaxAge is how long (seconds) clients may cache facet responses.
// Brands and categories only change on reseed, so a short shared cache is safe.
const facetCacheMaxAge = 60

// NewRouter creates a chi router with all catalog search routes registered.
func NewRouter(
	cfg *config.Config,
	searchService *service.SearchService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Tracing("search"))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("catalog-search"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	if cfg.PprofEnabled {
		middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)
	}

	// Catalog API endpoints
	searchHandler := NewSearchHandler(searchService, cfg.SeedDefaultCount, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/search", searchHandler.Search)
			r.Get("/autocomplete", searchHandler.Autocomplete)
			r.Get("/{id}", searchHandler.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(facetCacheMaxAge))
			r.Get("/brands", searchHandler.Brands)
			r.Get("/categories", searchHandler.Categories)
		})

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/init", searchHandler.Init)
			r.Post("/seed", searchHandler.Seed)
		})
	})

	return r
}
