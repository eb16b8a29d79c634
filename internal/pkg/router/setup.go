package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/middleware"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter registers all routes. captcha may be nil to accept anonymous
// form posts without a captcha.
func InstallRouter(app *fiber.App, svc *services.Services, captcha middleware.CaptchaVerifier) {
	// HttpRouter installs the UserContext and settings middlewares the API
	// routes depend on, so it goes first.
	setup(app, NewHttpRouter(svc), NewApiRouter(svc, captcha))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
