package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tmsbot/internal/handlers"
	"tmsbot/internal/observability"
	"tmsbot/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QueryService service.QueryService
	Index        handlers.IndexStatus
	Databases    handlers.DatabasePinger
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(observability.MetricsMiddleware)
	r.Use(Recoverer)
	r.Use(CORS)

	r.Get("/", handlers.Root)
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.Index, deps.Databases))
	r.Method(http.MethodPost, "/query", handlers.NewQueryHandler(deps.QueryService))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
