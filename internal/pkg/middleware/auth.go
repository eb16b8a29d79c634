package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return apperr.Unauthorized("login required")
	}
	return c.Next()
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403.
func RequireAdmin(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return apperr.Unauthorized("login required")
	}
	if !userCtx.IsAdmin {
		return apperr.Forbidden("administrator access required")
	}
	return c.Next()
}
