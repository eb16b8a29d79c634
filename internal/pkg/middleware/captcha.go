package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

// CaptchaHeader carries the hCaptcha response token on JSON form posts.
const CaptchaHeader = "X-Captcha-Token"

type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// RequireCaptcha rejects anonymous posts without a valid captcha token.
// Logged-in users and a nil verifier skip the check.
func RequireCaptcha(verifier CaptchaVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if verifier == nil || usercontext.IsLoggedIn(c) {
			return c.Next()
		}
		if err := verifier.Verify(c.UserContext(), c.Get(CaptchaHeader), c.IP()); err != nil {
			log.Infof("[Captcha] %s %s rejected: %v", c.Method(), c.Path(), err)
			return apperr.Field("captcha", "Please complete the captcha")
		}
		return c.Next()
	}
}
