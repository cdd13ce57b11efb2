package router

import (
	"net/http"

	"kart-checkout/internal/handler"
	"kart-checkout/internal/metrics"
	"kart-checkout/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Options configures the optional parts of the router.
type Options struct {
	APIKey         string
	AllowedOrigins []string
	// ReceiptsEnabled exposes GET /api/checkouts/{id}.
	ReceiptsEnabled bool
	// Gatherer serves /metrics when set.
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	checkoutHandler *handler.CheckoutHandler,
	ruleHandler *handler.RuleHandler,
	opts Options,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware order: Recovery -> RequestID -> Logging -> Metrics -> CORS -> APIKeyAuth
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(opts.HTTPMetrics))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.APIKeyAuth(opts.APIKey, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/checkout", checkoutHandler.Checkout)
		if opts.ReceiptsEnabled {
			api.Get("/checkouts/{id}", checkoutHandler.GetReceipt)
		}
		api.Get("/rules", ruleHandler.List)
		api.Get("/rules/{code}", ruleHandler.Get)
	})

	return r
}
