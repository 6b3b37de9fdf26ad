package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/orchestrator/internal/eventbus"
	"github.com/inkwell/orchestrator/internal/service"
)

// StreamBookEvents streams run snapshots for a book via SSE.
// GET /v1/books/:book_id/events/stream
//
// Each snapshot is one `data: <json>` frame; an empty object `{}` is sent
// as a keep-alive when the stream is idle. The stream ends when the client
// disconnects or the run reaches a terminal snapshot.
func (h *Handler) StreamBookEvents(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("book_id")

	// Validate book exists
	if _, err := h.service.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get book"})
	}

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	if flusher, ok := c.Response().Writer.(http.Flusher); ok {
		flusher.Flush()
	}

	sub := h.service.Bus().Subscribe(bookID)
	defer h.service.Bus().Unsubscribe(bookID, sub)

	for {
		snapshot, err := sub.Next(ctx, h.idleTimeout)
		switch {
		case err == nil:
			data, err := json.Marshal(snapshot)
			if err != nil {
				log.Printf("ERROR: failed to marshal snapshot: %v", err)
				continue
			}
			if err := writeSSE(c, data); err != nil {
				return nil
			}
			if snapshot.Terminal() {
				return nil
			}
		case errors.Is(err, eventbus.ErrIdleTimeout):
			// Keep-alive so proxies don't drop the connection.
			if err := writeSSE(c, []byte("{}")); err != nil {
				return nil
			}
		default:
			// Client disconnected or subscription torn down.
			return nil
		}
	}
}

// writeSSE writes one SSE data frame and flushes it.
func writeSSE(c echo.Context, data []byte) error {
	if _, err := fmt.Fprintf(c.Response().Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	if flusher, ok := c.Response().Writer.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
