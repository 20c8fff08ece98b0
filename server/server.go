// Package server is the thin HTTP shell over the retrieval engine: routing,
// JSON encoding and status mapping, nothing else.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"railstatus/config"
	"railstatus/engine"
	"railstatus/models"
)

// Resolver answers train status queries.
type Resolver interface {
	Resolve(ctx context.Context, trainNo string) (*models.TrainStatusRecord, error)
}

// StatusProber reports provider reachability for the health surface.
type StatusProber interface {
	Primary(ctx context.Context) string
	All(ctx context.Context) map[string]bool
}

// NewRouter assembles the HTTP surface. CORS is wide open; the API serves
// read-only public data to browser clients.
func NewRouter(resolver Resolver, prober StatusProber, metrics *engine.Metrics) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	h := &handlers{resolver: resolver, prober: prober}
	r.Get("/", h.root)
	r.Get("/health", h.health)
	r.Get("/status/{trainNo}", h.status)
	r.Get("/sources/status", h.sources)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// New builds the http.Server with the configured timeouts.
func New(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout(),
		WriteTimeout:      cfg.WriteTimeout(),
		IdleTimeout:       cfg.IdleTimeout(),
	}
}
