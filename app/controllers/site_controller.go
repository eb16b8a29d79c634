package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/sitecontext"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

// SiteController serves the site-wide endpoints: settings, meetings, contact
// and story submissions from visitors.
type SiteController struct {
	settings    *services.SettingService
	meetings    *services.MeetingService
	contacts    *services.ContactService
	submissions *services.SubmissionService
}

func NewSiteController(s *services.Services) *SiteController {
	return &SiteController{
		settings:    s.Settings,
		meetings:    s.Meetings,
		contacts:    s.Contacts,
		submissions: s.Submissions,
	}
}

// HandleSettings returns the public subset of the settings loaded for this request.
func (sc *SiteController) HandleSettings(c *fiber.Ctx) error {
	setting := sitecontext.Settings(c)
	return response.Success(c, setting.Public())
}

// HandleMeetings proxies the external meetings feed. Upstream failures yield an empty list.
func (sc *SiteController) HandleMeetings(c *fiber.Ctx) error {
	return response.Success(c, sc.meetings.Fetch(c.UserContext(), c.Query("search")))
}

func (sc *SiteController) HandleContact(c *fiber.Ctx) error {
	var in services.ContactInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	contact, err := sc.contacts.Submit(c.UserContext(), usercontext.GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response.Response{
		Success: true,
		Message: "Thank you for your message. We will get back to you soon.",
		Data:    fiber.Map{"id": contact.ID},
	})
}

// HandleSubmitStory queues a visitor's story for review.
func (sc *SiteController) HandleSubmitStory(c *fiber.Ctx) error {
	var in services.SubmissionInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	sub, err := sc.submissions.Submit(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response.Response{
		Success: true,
		Message: "Thank you for sharing your story. It will be reviewed before publication.",
		Data:    fiber.Map{"id": sub.ID},
	})
}

func (sc *SiteController) HandleAdminSettings(c *fiber.Ctx) error {
	setting, err := sc.settings.Get(c.UserContext())
	if err != nil {
		return err
	}
	return response.Success(c, setting)
}

func (sc *SiteController) HandleAdminSettingsUpdate(c *fiber.Ctx) error {
	var in services.SettingInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	setting, err := sc.settings.Update(c.UserContext(), in)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Settings saved", setting)
}
