package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ProductAPI/internal/identity"
	"ProductAPI/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// Verifier is optional; without it the auth check only reports presence.
	Verifier           *identity.Verifier
	CORSAllowedOrigins []string
}

// NewHandler assembles the request pipeline around s: request id, error
// boundary, CORS, metrics, then the request logger and auth check
// interceptors, then route dispatch. /metrics goes through the same chain.
func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if s.Log == nil {
		s.Log = deps.Log
	}

	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Use(kit.Intercept(
		kit.RequestLogger(deps.Log),
		AuthCheck(deps.Log, deps.Verifier),
	))

	setupMetricsEndpoint(r, deps)
	r.Mount("/", s.Routes())

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer(deps.Log))

	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.RoutePattern))
}

func setupMetricsEndpoint(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil || !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}
