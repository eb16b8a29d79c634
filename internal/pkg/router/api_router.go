package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ritaorion/district5b-laravel-sub001/app/controllers"
	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/env"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/middleware"
)

type ApiRouter struct {
	stories   *controllers.StoryController
	events    *controllers.EventController
	faqs      *controllers.FAQController
	resources *controllers.ResourceController
	roster    *controllers.RosterController
	site      *controllers.SiteController
	inbox     *controllers.InboxController
	users     *controllers.UserController
	cache     *controllers.CacheController
	captcha   fiber.Handler
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        env.GetEnvInt("API_RATE_LIMIT", 120),
		Expiration: time.Minute,
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	api.Get("/settings", h.site.HandleSettings)
	api.Post("/contact", h.captcha, h.site.HandleContact)

	// Blog
	blog := api.Group("/stories", middleware.RequireFeature(models.FeatureBlog))
	blog.Get("/", h.stories.HandleIndex)
	blog.Post("/submit", h.captcha, h.site.HandleSubmitStory)
	blog.Get("/:slug", h.stories.HandleShow)

	// Events
	events := api.Group("/events", middleware.RequireFeature(models.FeatureEvents))
	events.Get("/", h.events.HandleIndex)
	events.Get("/:id", h.events.HandleShow)
	events.Get("/:id/attachment", h.events.HandleAttachment)

	api.Get("/faqs", middleware.RequireFeature(models.FeatureFAQs), h.faqs.HandleIndex)

	// Resources
	resources := api.Group("/resources", middleware.RequireFeature(models.FeatureResources))
	resources.Get("/", h.resources.HandleIndex)
	resources.Get("/:id/download", h.resources.HandleDownload)

	api.Get("/roster", middleware.RequireFeature(models.FeatureRoster), h.roster.HandleIndex)
	api.Get("/meetings", middleware.RequireFeature(models.FeatureMeetings), h.site.HandleMeetings)

	h.registerAdminRoutes(api)
}

func NewApiRouter(svc *services.Services, captcha middleware.CaptchaVerifier) *ApiRouter {
	return &ApiRouter{
		stories:   controllers.NewStoryController(svc.Stories),
		events:    controllers.NewEventController(svc.Events),
		faqs:      controllers.NewFAQController(svc.FAQs),
		resources: controllers.NewResourceController(svc.Documents),
		roster:    controllers.NewRosterController(svc.Roster),
		site:      controllers.NewSiteController(svc),
		inbox:     controllers.NewInboxController(svc.Contacts, svc.Submissions),
		users:     controllers.NewUserController(svc.Users),
		cache:     controllers.NewCacheController(svc.Cache),
		captcha:   middleware.RequireCaptcha(captcha),
	}
}
