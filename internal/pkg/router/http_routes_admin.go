package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/middleware"
)

func (h ApiRouter) registerAdminRoutes(api fiber.Router) {
	adminGroup := api.Group("/admin", middleware.RequireAuth)

	// Stories: any logged-in user; ownership is checked per story
	adminGroup.Get("/stories", h.stories.HandleAdminIndex)
	adminGroup.Post("/stories", h.stories.HandleAdminStore)
	adminGroup.Get("/stories/:id", h.stories.HandleAdminShow)
	adminGroup.Put("/stories/:id", h.stories.HandleAdminUpdate)
	adminGroup.Delete("/stories/:id", h.stories.HandleAdminDelete)

	// Events
	events := adminGroup.Group("/events", middleware.RequireAdmin)
	events.Get("/", h.events.HandleAdminIndex)
	events.Post("/", h.events.HandleAdminStore)
	events.Get("/:id", h.events.HandleShow)
	events.Put("/:id", h.events.HandleAdminUpdate)
	events.Delete("/:id", h.events.HandleAdminDelete)
	events.Get("/:id/attachment", h.events.HandleAttachment)
	events.Post("/:id/attachment", h.events.HandleAdminAttach)
	events.Delete("/:id/attachment", h.events.HandleAdminDetach)
	events.Post("/:id/publish", h.events.HandleAdminPublish)

	// FAQs
	faqs := adminGroup.Group("/faqs", middleware.RequireAdmin)
	faqs.Get("/", h.faqs.HandleAdminIndex)
	faqs.Post("/", h.faqs.HandleAdminStore)
	faqs.Get("/:id", h.faqs.HandleAdminShow)
	faqs.Put("/:id", h.faqs.HandleAdminUpdate)
	faqs.Delete("/:id", h.faqs.HandleAdminDelete)

	// Documents
	documents := adminGroup.Group("/documents", middleware.RequireAdmin)
	documents.Get("/", h.resources.HandleAdminIndex)
	documents.Post("/", h.resources.HandleAdminUpload)
	documents.Get("/:id", h.resources.HandleAdminShow)
	documents.Put("/:id", h.resources.HandleAdminUpdate)
	documents.Delete("/:id", h.resources.HandleAdminDelete)
	documents.Get("/:id/download", h.resources.HandleAdminDownload)

	// Roster
	roster := adminGroup.Group("/roster", middleware.RequireAdmin)
	roster.Get("/", h.roster.HandleAdminIndex)
	roster.Post("/", h.roster.HandleAdminStore)
	roster.Get("/:id", h.roster.HandleAdminShow)
	roster.Put("/:id", h.roster.HandleAdminUpdate)
	roster.Delete("/:id", h.roster.HandleAdminDelete)

	// Users
	users := adminGroup.Group("/users", middleware.RequireAdmin)
	users.Get("/", h.users.HandleAdminIndex)
	users.Post("/", h.users.HandleAdminStore)
	users.Get("/:id", h.users.HandleAdminShow)
	users.Put("/:id", h.users.HandleAdminUpdate)
	users.Delete("/:id", h.users.HandleAdminDelete)

	// Inbox
	contacts := adminGroup.Group("/contacts", middleware.RequireAdmin)
	contacts.Get("/", h.inbox.HandleContacts)
	contacts.Get("/:id", h.inbox.HandleContactShow)
	contacts.Delete("/:id", h.inbox.HandleContactDelete)

	submissions := adminGroup.Group("/submissions", middleware.RequireAdmin)
	submissions.Get("/", h.inbox.HandleSubmissions)
	submissions.Get("/:id", h.inbox.HandleSubmissionShow)
	submissions.Post("/:id/approve", h.inbox.HandleSubmissionApprove)
	submissions.Post("/:id/reject", h.inbox.HandleSubmissionReject)
	submissions.Delete("/:id", h.inbox.HandleSubmissionDelete)

	// Settings + cache
	adminGroup.Get("/settings", middleware.RequireAdmin, h.site.HandleAdminSettings)
	adminGroup.Put("/settings", middleware.RequireAdmin, h.site.HandleAdminSettingsUpdate)
	adminGroup.Get("/cache", middleware.RequireAdmin, h.cache.HandleStats)
	adminGroup.Delete("/cache", middleware.RequireAdmin, h.cache.HandleFlush)
	adminGroup.Delete("/cache/:entity", middleware.RequireAdmin, h.cache.HandleFlushEntity)
}
