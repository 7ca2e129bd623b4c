package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/strauss-analytics/ticket-intake/internal/api/http/handlers"
	apperrors "github.com/strauss-analytics/ticket-intake/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes. Each intake path gets a catch-all behind
// its real methods so a wrong verb yields the JSON 405 body instead of
// fiber's default.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.All("/tickets", methodNotAllowed)

	api.Post("/tickets/update", cfg.Tickets.UpdateTicket)
	api.All("/tickets/update", methodNotAllowed)
}

func methodNotAllowed(*fiber.Ctx) error {
	return apperrors.NewMethodNotAllowed()
}
