// Package rest exposes the family graph, its layout and the viewer metrics
// over HTTP.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"genealogy3d/application/services"
	domainservices "genealogy3d/domain/services"
	"genealogy3d/interfaces/http/rest/handlers"
	"genealogy3d/interfaces/http/rest/middleware"
	apperrors "genealogy3d/pkg/errors"
)

// Options configures the router.
type Options struct {
	Layout         domainservices.LayoutConfig
	MaxNeighbors   int
	AllowedOrigins []string
	Debug          bool
}

// Router creates and configures the HTTP router
type Router struct {
	service  *services.FamilyService
	registry *prometheus.Registry
	options  Options
	logger   *zap.Logger
}

// NewRouter creates a new router instance. A nil registry disables
// /metrics.
func NewRouter(
	service *services.FamilyService,
	registry *prometheus.Registry,
	options Options,
	logger *zap.Logger,
) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		service:  service,
		registry: registry,
		options:  options,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.options.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/healthz", rt.healthCheck)
	if rt.registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	}

	errorHandler := apperrors.NewErrorHandler(rt.logger, rt.options.Debug)
	family := handlers.NewFamilyHandler(rt.service, rt.options.Layout, rt.options.MaxNeighbors, errorHandler, rt.logger)

	router.Route("/api", func(r chi.Router) {
		r.Get("/persons", family.ListPersons)
		r.Get("/persons/{personID}", family.GetPerson)
		r.Get("/layout", family.GetLayout)
		r.Get("/connections/{personID}", family.GetConnections)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	status := http.StatusOK
	body := `{"status":"healthy"}`
	if rt.service.BreakerState() == "open" {
		status = http.StatusServiceUnavailable
		body = `{"status":"degraded"}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
