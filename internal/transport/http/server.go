// Package http provides the HTTP server implementation for the orchestrator.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/inkwell/orchestrator/internal/config"
	"github.com/inkwell/orchestrator/internal/service"
	v1 "github.com/inkwell/orchestrator/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server: book management,
// generation control, and the live event streams.
func NewServer(svc *service.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc, cfg.StreamIdleTimeout)

	// Register Routes
	v1Handler.RegisterRoutes(e)

	return e
}
