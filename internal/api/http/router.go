package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/escalation-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Requests  *handlers.RequestsHandler
	Knowledge *handlers.KnowledgeHandler
	Customers *handlers.CustomersHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Get("/requests", cfg.Requests.List)
	api.Get("/requests/:id", cfg.Requests.Get)
	api.Post("/requests", cfg.Requests.Create)
	api.Patch("/requests/:id/answer", cfg.Requests.SubmitAnswer)

	api.Get("/knowledge", cfg.Knowledge.List)
	api.Get("/knowledge/search", cfg.Knowledge.Search)
	api.Post("/knowledge/:id/usage", cfg.Knowledge.RecordUsage)

	api.Post("/customers", cfg.Customers.Create)
	api.Get("/customers/phone/:phone", cfg.Customers.GetByPhone)
}
