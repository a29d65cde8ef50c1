package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-portal/internal/api/http/handlers"
	"github.com/spec-kit/member-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/register", cfg.Auth.Register)
	api.Post("/check-email", cfg.Auth.CheckEmail)
	api.Post("/login", cfg.Auth.Login)
	api.Post("/login-otp-request", cfg.Auth.RequestLoginOTP)
	api.Post("/verify-otp", cfg.Auth.VerifyOTP)
	api.Post("/resend-otp", cfg.Auth.ResendOTP)
	api.Post("/reset-password-request", cfg.Auth.RequestPasswordReset)
	api.Post("/reset-password-verify-otp", cfg.Auth.VerifyResetOTP)
	api.Post("/reset-password-update", cfg.Auth.ConfirmPasswordReset)

	member := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireMember())
	member.Get("/profile", cfg.Profile.Get)
	member.Put("/update-profile", cfg.Profile.Update)
	member.Post("/update-password", cfg.Profile.ChangePassword)
	member.Delete("/delete-account", cfg.Profile.DeleteAccount)

	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", cfg.Admin.Login)

	adminProtected := adminGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	adminProtected.Get("/members", cfg.Admin.ListMembers)
	adminProtected.Get("/branches", cfg.Admin.ListBranches)
	adminProtected.Delete("/delete-member-permanent", cfg.Admin.PermanentDelete)
	adminProtected.Post("/restore-member", cfg.Admin.RestoreMember)
}
