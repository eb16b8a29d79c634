package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/sitecontext"
)

// SettingsLoader returns the site settings, normally through the cache.
type SettingsLoader interface {
	Get(ctx context.Context) (*models.Setting, error)
}

// SettingsMiddleware loads the settings once per request. A failing store
// falls back to the defaults rather than failing the request.
func SettingsMiddleware(loader SettingsLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		setting, err := loader.Get(c.UserContext())
		if err != nil {
			log.Warnf("[Settings] using defaults: %v", err)
			sitecontext.SetSettings(c, models.DefaultSetting())
			return c.Next()
		}
		sitecontext.SetSettings(c, *setting)
		return c.Next()
	}
}

// RequireFeature answers 404 while the named public module is switched off.
func RequireFeature(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sitecontext.FeatureEnabled(c, feature) {
			return apperr.NotFound("Page not found")
		}
		return c.Next()
	}
}
