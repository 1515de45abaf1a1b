package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/onsite-team/taskflow/internal/api/http/handlers"
	"github.com/onsite-team/taskflow/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tasks          *handlers.TasksHandler
	Team           *handlers.TeamHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	tasks := protected.Group("/tasks")
	tasks.Get("/", cfg.Tasks.ListTasks)
	tasks.Post("/", auth.RequireAdmin(), cfg.Tasks.CreateTask)
	tasks.Get("/:id", cfg.Tasks.GetTask)
	tasks.Patch("/:id/progress", cfg.Tasks.UpdateProgress)

	team := protected.Group("/team")
	team.Get("/", cfg.Team.ListMembers)
	team.Get("/:id/stats", cfg.Team.MemberStats)

	protected.Get("/stats/dashboard", cfg.Stats.Dashboard)
}
