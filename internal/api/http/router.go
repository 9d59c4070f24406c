package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/octopus-tms/auth-service/internal/api/http/handlers"
	"github.com/octopus-tms/auth-service/internal/auth"
	"github.com/octopus-tms/auth-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	PasswordReset  *handlers.PasswordResetHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The auth filter runs on every route and
// only attaches identity; route guards decide who gets in.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/authenticate", cfg.Auth.Authenticate)

	resetGroup := app.Group("/passwordReset")
	resetGroup.Post("/start", cfg.PasswordReset.Start)
	resetGroup.Get("/isValidUid", cfg.PasswordReset.IsValidUID)
	resetGroup.Post("/complete", cfg.PasswordReset.Complete)

	authGroup := app.Group("/auth")
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	protected := authGroup.Group("", auth.RequireAuthenticated())
	protected.Post("/logout", cfg.Auth.Logout)
	protected.Get("/me", cfg.Auth.Me)
	protected.Post("/password/change", cfg.Auth.ChangePassword)

	app.Post("/users", auth.RequireCapability(domain.CapabilityManageUsers), cfg.Users.Create)
}
