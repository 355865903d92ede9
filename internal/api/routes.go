package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func SetupRoutes(handler *Handler) *chi.Mux {
	r := chi.NewRouter()

	for _, middleware := range SetupMiddleware() {
		r.Use(middleware)
	}

	// JSON content type
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Health check endpoint
	r.Get("/health", handler.HealthCheck)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/heightmaps", handler.GenerateHeightmap)
		r.Get("/heightmaps", handler.ListHeightmaps)
		r.Get("/heightmaps/{name}", handler.GetHeightmap)
		r.Delete("/heightmaps/{name}", handler.DeleteHeightmap)
	})

	return r
}
