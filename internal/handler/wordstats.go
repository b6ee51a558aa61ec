package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mirchandani-mohnish/ytanalytics/internal/service"
)

type WordStatsHandler struct {
	svc *service.SearchService
}

func NewWordStatsHandler(svc *service.SearchService) *WordStatsHandler {
	return &WordStatsHandler{svc: svc}
}

// GetWordStats handles GET /api/wordstats?q=... — the word-frequency view of
// a query's current result set.
func (h *WordStatsHandler) GetWordStats(c fiber.Ctx) error {
	query := normalizeQuery(fiber.Query[string](c, "q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "MISSING_PARAM",
				"message": "q query parameter is required",
			},
		})
	}

	resp, err := h.svc.WordStats(c.Context(), query)
	if err != nil {
		return upstreamErrorResponse(c, err)
	}
	return c.JSON(resp)
}
