package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jewisonj/Purina-Tracker/internal/auth"
	"github.com/jewisonj/Purina-Tracker/internal/invoices"
	"github.com/jewisonj/Purina-Tracker/internal/ledger"
	"github.com/jewisonj/Purina-Tracker/internal/observability"
	"github.com/jewisonj/Purina-Tracker/internal/pricelist"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	LedgerHandler    *ledger.Handler
	PriceListHandler *pricelist.Handler
	InvoicesHandler  *invoices.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with tracker defaults.
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

	r.Route("/api", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthHandler.RequireAuth)
			params.LedgerHandler.MountRoutes(r)
			params.PriceListHandler.MountRoutes(r)
			if params.InvoicesHandler != nil {
				params.InvoicesHandler.MountRoutes(r)
			}
		})
	})

	return r
}
