package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/mirchandani-mohnish/ytanalytics/internal/service"
	"github.com/mirchandani-mohnish/ytanalytics/internal/youtube"
)

type SearchHandler struct {
	svc *service.SearchService
}

func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search handles GET /api/search?q=...&maxResults=N — one synchronous run of
// the enrichment pipeline.
func (h *SearchHandler) Search(c fiber.Ctx) error {
	query := normalizeQuery(fiber.Query[string](c, "q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "MISSING_PARAM",
				"message": "q query parameter is required",
			},
		})
	}

	maxResults := fiber.Query[int](c, "maxResults")
	res, err := h.svc.Analyze(c.Context(), query, maxResults)
	if err != nil {
		return upstreamErrorResponse(c, err)
	}
	return c.JSON(res)
}

// normalizeQuery collapses internal whitespace so "go  tutorial" and
// "go tutorial" share one coordinator.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

func upstreamErrorResponse(c fiber.Ctx, err error) error {
	var ue *youtube.UpstreamError
	if errors.As(err, &ue) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "UPSTREAM_ERROR",
				"message": "YouTube API request failed",
			},
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "INTERNAL_ERROR",
			"message": "Failed to analyze query",
		},
	})
}
