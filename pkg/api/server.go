// Package api serves a read-only HTTP browser over a loaded asset pipeline.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every browser route onto a chi router. Metrics are
// registered with reg and exposed on /metrics.
func NewRouter(server *Server, reg *prometheus.Registry) http.Handler {
	metrics := server.metrics

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", "X-Asset-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(server.config.APIKey))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Assets
		r.Get("/assets", metrics.InstrumentHandler("GET", "/api/v1/assets", server.handleListAssets))
		r.Get("/assets/{key}", metrics.InstrumentHandler("GET", "/api/v1/assets/{key}", server.handleGetAsset))
		r.Get("/assets/{key}/raw", metrics.InstrumentHandler("GET", "/api/v1/assets/{key}/raw", server.handleRawAsset))
		r.Get("/assets/{key}/thumbnail", metrics.InstrumentHandler("GET", "/api/v1/assets/{key}/thumbnail", server.handleThumbnail))

		// Diagnostics
		r.Get("/shards", metrics.InstrumentHandler("GET", "/api/v1/shards", server.handleListShards))
		r.Get("/stats", metrics.InstrumentHandler("GET", "/api/v1/stats", server.handleStats))
	})

	return r
}

// StartServer serves the browser until the listener fails
func StartServer(source AssetSource, config ServerConfig) error {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	metrics.UpdatePipelineStats(source.Stats())

	server := NewServer(source, config, metrics)
	handler := NewRouter(server, reg)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	slog.Info("Starting asset browser", "addr", addr, "shards", len(source.Shards()))
	slog.Info("Metrics available", "url", fmt.Sprintf("http://%s/metrics", addr))

	if err := http.ListenAndServe(addr, handler); err != nil {
		return fmt.Errorf("asset browser stopped: %w", err)
	}
	return nil
}
