package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/socrates-echo-api/internal/config"
	"github.com/noah-isme/socrates-echo-api/internal/handler"
	"github.com/noah-isme/socrates-echo-api/internal/middleware"
	"github.com/noah-isme/socrates-echo-api/internal/models"
	"github.com/noah-isme/socrates-echo-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Workspaces          handler.WorkspaceCounter
	WorkspaceHandler    *handler.WorkspaceHandler
	SessionHandler      *handler.SessionHandler
	NavigationHandler   *handler.NavigationHandler
	NotificationHandler *handler.NotificationHandler
	ClassHandler        *handler.ClassHandler
	WorkspaceAuth       fiber.Handler
	LoginRateLimit      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.Workspaces))

	if deps.WorkspaceHandler != nil {
		deps.WorkspaceHandler.Register(api.Group("/workspaces"))
	}

	workspaceAuth := deps.WorkspaceAuth
	if workspaceAuth == nil {
		workspaceAuth = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.SessionHandler != nil {
		var loginGuards []fiber.Handler
		if deps.LoginRateLimit != nil {
			loginGuards = append(loginGuards, deps.LoginRateLimit)
		}
		deps.SessionHandler.Register(api.Group("/session", workspaceAuth), loginGuards...)
	}

	if deps.NavigationHandler != nil {
		deps.NavigationHandler.Register(api.Group("/navigation", workspaceAuth))
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", workspaceAuth))
	}

	if deps.ClassHandler != nil {
		classes := api.Group("/classes", workspaceAuth, middleware.RequireRole(string(models.RoleTeacher)))
		deps.ClassHandler.Register(classes)
	}
}
