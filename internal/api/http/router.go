package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Complaints     *handlers.ComplaintsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Index)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Get("/register", cfg.Accounts.RegisterForm)
	app.Post("/register", cfg.Accounts.Register)
	app.Get("/login", cfg.Accounts.LoginForm)
	app.Post("/login", cfg.Accounts.Login)

	session := cfg.AuthMiddleware.Handle
	app.Get("/logout", session, cfg.Accounts.Logout)
	app.Get("/dashboard", session, cfg.Complaints.Dashboard)
	app.Get("/complaints", session, cfg.Complaints.List)
	app.Get("/complaint/new", session, cfg.Complaints.NewForm)
	app.Post("/complaint/new", session, cfg.Complaints.Create)
	app.Get("/complaint/:id/edit", session, cfg.Complaints.EditForm)
	app.Post("/complaint/:id/edit", session, cfg.Complaints.Edit)
	app.Get("/complaint/:id/delete", session, cfg.Complaints.Delete)

	admin := app.Group("/admin", session, auth.RequireAdmin())
	admin.Get("", cfg.Admin.Dashboard)
	admin.Get("/complaint/:id/progress", cfg.Admin.MarkInProgress)
	admin.Post("/complaint/:id/resolve", cfg.Admin.Resolve)
}
