// Package v1 implements the public HTTP API.
package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/orchestrator/internal/service"
)

// Handler holds the dependencies of the v1 API handlers.
type Handler struct {
	service     *service.Service
	idleTimeout time.Duration
}

// NewHandler creates a new v1 handler.
func NewHandler(svc *service.Service, idleTimeout time.Duration) *Handler {
	return &Handler{service: svc, idleTimeout: idleTimeout}
}

// RegisterRoutes registers the v1 routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	e.POST("/v1/books", h.CreateBook)
	e.GET("/v1/books/:book_id", h.GetBook)
	e.POST("/v1/books/:book_id/generate", h.GenerateBook)
	e.GET("/v1/books/:book_id/status", h.GetBookStatus)
	e.GET("/v1/books/:book_id/export", h.ExportBook)
	e.GET("/v1/books/:book_id/events/stream", h.StreamBookEvents)
	e.GET("/v1/books/:book_id/events/ws", h.StreamBookEventsWS)
}

// Health reports liveness.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
