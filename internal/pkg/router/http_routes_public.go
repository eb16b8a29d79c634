package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	group := app.Group("", cors.New())

	// Auth
	group.Post("/login", h.auth.HandleLogin)
	group.Post("/logout", middleware.RequireAuth, h.auth.HandleLogout)
	group.Get("/session", h.auth.HandleSession)

	// Password setup link from the welcome mail
	group.Get("/password/setup/:token", h.auth.HandlePasswordSetupShow)
	group.Post("/password/setup/:token", h.auth.HandlePasswordSetup)

	// Own account
	group.Get("/account/profile", middleware.RequireAuth, h.users.HandleProfile)
	group.Put("/account/profile", middleware.RequireAuth, h.users.HandleProfileUpdate)
	group.Put("/account/password", middleware.RequireAuth, h.users.HandlePasswordChange)
}
