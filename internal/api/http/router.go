package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticketflow/internal/api/http/handlers"
	"github.com/opsdesk/ticketflow/internal/auth"
	"github.com/opsdesk/ticketflow/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Meta           *handlers.MetaHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	meta := app.Group("/meta", cfg.AuthMiddleware.Handle, auth.RequireRole())
	meta.Get("/categories", cfg.Meta.ListCategories)
	meta.Get("/categories/:id/subcategories", cfg.Meta.ListSubcategories)
	meta.Get("/closure-codes", cfg.Meta.ListClosureCodes)
	meta.Get("/departments", cfg.Meta.ListDepartments)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireRole())
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/mine", cfg.Tickets.ListOwnTickets)

	staff := tickets.Group("", auth.RequireRole(domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin))
	staff.Get("/queue", cfg.Tickets.ListQueue)
	staff.Get("/assigned", cfg.Tickets.ListAssigned)

	managers := tickets.Group("", auth.RequireRole(domain.RoleManager, domain.RoleAdmin))
	managers.Get("/team", cfg.Tickets.ListTeamTickets)

	tickets.Get("/number/:number", cfg.Tickets.GetTicketByNumber)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)

	staff.Post("/:id/assign", cfg.Tickets.AssignTicket)
	staff.Post("/:id/status", cfg.Tickets.UpdateStatus)
	staff.Post("/:id/close", cfg.Tickets.CloseTicket)
	staff.Patch("/:id/priority", cfg.Tickets.UpdatePriority)

	managers.Post("/:id/reassign", cfg.Tickets.ReassignTicket)
}
