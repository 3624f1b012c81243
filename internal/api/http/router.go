package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/guild-setup-service/internal/api/http/handlers"
	"github.com/spec-kit/guild-setup-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Gateway           *handlers.GatewayHandler
	GatewayMiddleware *auth.GatewayMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	gateway := app.Group("/gateway", cfg.GatewayMiddleware.Handle)
	gateway.Post("/messages", cfg.Gateway.Messages)
	gateway.Post("/interactions", cfg.Gateway.Interactions)
}
