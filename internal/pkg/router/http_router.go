package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/controllers"
	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/middleware"
)

type HttpRouter struct {
	auth  *controllers.AuthController
	users *controllers.UserController
	svc   *services.Services
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Site settings for feature flags, loaded through the cache
	app.Use(middleware.SettingsMiddleware(h.svc.Settings))

	h.registerPublicRoutes(app)
}

func NewHttpRouter(svc *services.Services) *HttpRouter {
	return &HttpRouter{
		auth:  controllers.NewAuthController(svc.Users),
		users: controllers.NewUserController(svc.Users),
		svc:   svc,
	}
}
