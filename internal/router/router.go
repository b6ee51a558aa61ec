package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/mirchandani-mohnish/ytanalytics/internal/handler"
	"github.com/mirchandani-mohnish/ytanalytics/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Search    *handler.SearchHandler
	Stream    *handler.StreamHandler
	WordStats *handler.WordStatsHandler
	Stats     *handler.StatsHandler
	Health    *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics (before API group)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	api.Get("/search", h.Search.Search)
	api.Get("/search/stream", h.Stream.Stream)
	api.Get("/wordstats", h.WordStats.GetWordStats)
	api.Get("/stats", h.Stats.GetStats)
}
