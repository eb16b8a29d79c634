// Package sitecontext carries the site settings of the current request.
package sitecontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
)

const keySettings = "SITE_SETTINGS"

// SetSettings stores the settings loaded for this request.
func SetSettings(c *fiber.Ctx, s models.Setting) {
	c.Locals(keySettings, s)
}

// Settings returns the request's settings, or the defaults when the
// middleware did not run or could not load them.
func Settings(c *fiber.Ctx) models.Setting {
	if s, ok := c.Locals(keySettings).(models.Setting); ok {
		return s
	}
	return models.DefaultSetting()
}

// FeatureEnabled is shorthand for Settings(c).FeatureEnabled(feature).
func FeatureEnabled(c *fiber.Ctx, feature string) bool {
	s := Settings(c)
	return s.FeatureEnabled(feature)
}
