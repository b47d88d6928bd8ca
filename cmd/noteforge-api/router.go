// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/noteforge/noteforge/cmd/noteforge-api/handlers"
	"github.com/noteforge/noteforge/cmd/noteforge-api/middleware"
	"github.com/noteforge/noteforge/internal/config"
	"github.com/noteforge/noteforge/internal/observability"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config, uploads handlers.Uploader, pipeline handlers.Pipeline) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins, cfg.CORS.AllowCredentials))

	// Every part at its limit plus room for form overhead.
	maxBody := cfg.Upload.MaxFileSize*int64(cfg.Upload.MaxFiles) + 1<<20

	uploadHandler := handlers.NewUploadHandler(logger, uploads, maxBody)
	documentHandler := handlers.NewDocumentHandler(logger, pipeline)

	r.Get("/health", handlers.Health(config.Version))
	r.Post("/upload", uploadHandler.Upload)
	r.Get("/convert/{file_id}", documentHandler.Convert)
	r.Get("/pdf/{file_id}", documentHandler.Render)

	return r
}
