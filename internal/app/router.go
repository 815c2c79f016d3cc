package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/trophydesk/trophydesk/internal/auth"
	"github.com/trophydesk/trophydesk/internal/catalog"
	"github.com/trophydesk/trophydesk/internal/customers"
	"github.com/trophydesk/trophydesk/internal/designjobs"
	"github.com/trophydesk/trophydesk/internal/observability"
	"github.com/trophydesk/trophydesk/internal/orders"
	"github.com/trophydesk/trophydesk/internal/quotation"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	AuthMiddleware    auth.Middleware
	CatalogHandler    *catalog.Handler
	CustomersHandler  *customers.Handler
	OrdersHandler     *orders.Handler
	DesignJobsHandler *designjobs.Handler
	QuotationHandler  *quotation.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with TrophyDesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireActor)
		r.Route("/catalog", params.CatalogHandler.MountRoutes)
		r.Route("/customers", params.CustomersHandler.MountRoutes)
		r.Route("/orders", params.OrdersHandler.MountRoutes)
		r.Route("/design-jobs", params.DesignJobsHandler.MountRoutes)
		r.Route("/quotations", params.QuotationHandler.MountRoutes)
	})

	return r
}
