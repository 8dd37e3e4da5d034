package routes

import (
	"github.com/go-chi/chi/v5"

	"airspace-analytics/sectorcap/internal/api"
	"airspace-analytics/sectorcap/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, limiter *middleware.RateLimiter) {
	r.Route("/api/v1", func(v1 chi.Router) {
		// ingestion administration rewrites the flights table
		v1.Group(func(admin chi.Router) {
			admin.Use(limiter.Middleware)
			admin.Post("/ingest", handlers.Ingest())
			admin.Post("/ingest/reset", handlers.ResetIngestion())
			admin.Delete("/files/{name}", handlers.DeleteFile())
		})
		v1.Get("/ingest/progress", handlers.IngestProgress())
		v1.Get("/ingest/history", handlers.IngestHistory())

		v1.Route("/sectors", func(s chi.Router) {
			s.Get("/", handlers.ListSectors())
			s.Post("/", handlers.CreateSector())
			s.Get("/{id}", handlers.GetSector())
			s.Put("/{id}", handlers.UpdateSector())
			s.Delete("/{id}", handlers.DeleteSector())
		})

		v1.Get("/regions", handlers.ListRegions())
		v1.Post("/regions/load", handlers.LoadRegions())

		v1.Route("/analytics", func(a chi.Router) {
			a.Post("/capacity/{sector_id}", handlers.ComputeCapacity())
			a.Post("/demand", handlers.ForecastDemand())
			a.Post("/seasonal-trend", handlers.ForecastSeasonalTrend())
			a.Post("/peak-hours", handlers.PeakHours())
			a.Post("/airline-growth", handlers.AirlineGrowth())
			a.Post("/saturation/{sector_id}", handlers.SectorSaturation())
			a.Get("/model-health", handlers.ModelHealth())
		})
	})
}
