package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mirchandani-mohnish/ytanalytics/internal/middleware"
	"github.com/mirchandani-mohnish/ytanalytics/internal/service"
)

// heartbeatInterval paces SSE comment frames so dead connections are noticed
// between broadcasts (refresh periods are long).
const heartbeatInterval = 15 * time.Second

type StreamHandler struct {
	registry *service.Registry
}

func NewStreamHandler(registry *service.Registry) *StreamHandler {
	return &StreamHandler{registry: registry}
}

// Stream handles GET /api/search/stream?q=... — subscribes the connection to
// the query's coordinator and relays every broadcast as a Server-Sent Event
// until the client disconnects.
func (h *StreamHandler) Stream(c fiber.Ctx) error {
	query := normalizeQuery(fiber.Query[string](c, "q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "MISSING_PARAM",
				"message": "q query parameter is required",
			},
		})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	sub := service.NewSubscriber(4)
	coordinator := h.registry.Register(query, sub)

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer coordinator.Unregister(sub)

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case res, ok := <-sub.Updates():
				if !ok {
					return
				}
				payload, err := json.Marshal(res)
				if err != nil {
					middleware.Logger.Error().Err(err).Msg("marshal aggregate result")
					continue
				}
				if _, err := fmt.Fprintf(w, "event: result\ndata: %s\n\n", payload); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}

			case <-heartbeat.C:
				// A failed write is the only disconnect signal we get.
				if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}
