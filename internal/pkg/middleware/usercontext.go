package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/session"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session once per request and stores the
// caller's identity in Locals. Anonymous requests get an empty context.
func UserContextMiddleware(c *fiber.Ctx) error {
	userCtx, ok := session.Identity(c)
	if !ok {
		userCtx = usercontext.UserContext{}
	}
	usercontext.SetUserContext(c, userCtx)
	return c.Next()
}
