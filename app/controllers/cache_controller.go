package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

// CacheController exposes cache inspection and manual flushes to admins.
type CacheController struct {
	cache *services.CacheService
}

func NewCacheController(cache *services.CacheService) *CacheController {
	return &CacheController{cache: cache}
}

func (cc *CacheController) HandleStats(c *fiber.Ctx) error {
	stats, err := cc.cache.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return response.Success(c, stats)
}

func (cc *CacheController) HandleFlush(c *fiber.Ctx) error {
	if err := cc.cache.Flush(c.UserContext()); err != nil {
		return err
	}
	log.Infof("[Cache] flushed by user %d", usercontext.GetUserID(c))
	return response.SuccessWithMessage(c, "Cache flushed", nil)
}

// HandleFlushEntity drops every cached key of one content type.
func (cc *CacheController) HandleFlushEntity(c *fiber.Ctx) error {
	entity := content.Entity(c.Params("entity"))
	removed, err := cc.cache.FlushEntity(c.UserContext(), entity)
	if err != nil {
		return err
	}
	log.Infof("[Cache] %s flushed by user %d (%d keys)", entity, usercontext.GetUserID(c), removed)
	return response.SuccessWithMessage(c, "Cache flushed", fiber.Map{"entity": entity, "removed": removed})
}
