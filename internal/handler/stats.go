package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mirchandani-mohnish/ytanalytics/internal/service"
)

type StatsHandler struct {
	registry *service.Registry
	startAt  time.Time
}

func NewStatsHandler(registry *service.Registry) *StatsHandler {
	return &StatsHandler{registry: registry, startAt: time.Now()}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	coordinators := h.registry.Snapshot()

	totalSubscribers := 0
	for _, info := range coordinators {
		totalSubscribers += info.Subscribers
	}

	return c.JSON(fiber.Map{
		"uptime_seconds":      int(time.Since(h.startAt).Seconds()),
		"active_coordinators": len(coordinators),
		"total_subscribers":   totalSubscribers,
		"coordinators":        coordinators,
	})
}
