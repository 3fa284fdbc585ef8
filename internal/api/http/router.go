package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ghostsync/member-sync/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Link    *handlers.LinkHandler
	Webhook *handlers.WebhookHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/auth/discord/return", cfg.Link.Return)
	app.Post("/webhook/ghost", cfg.Webhook.MemberChanged)
}
