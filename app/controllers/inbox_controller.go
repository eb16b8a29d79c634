package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

const (
	contactNotFound    = "Contact message not found"
	submissionNotFound = "Submission not found"
)

// InboxController is the admin view of what visitors sent in: contact
// messages and story submissions.
type InboxController struct {
	contacts    *services.ContactService
	submissions *services.SubmissionService
}

func NewInboxController(contacts *services.ContactService, submissions *services.SubmissionService) *InboxController {
	return &InboxController{contacts: contacts, submissions: submissions}
}

func (ic *InboxController) HandleContacts(c *fiber.Ctx) error {
	page, err := ic.contacts.List(c.UserContext(), listQuery(c, content.ScopeAdmin))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (ic *InboxController) HandleContactShow(c *fiber.Ctx) error {
	id, err := paramID(c, contactNotFound)
	if err != nil {
		return err
	}
	contact, err := ic.contacts.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, contact)
}

func (ic *InboxController) HandleContactDelete(c *fiber.Ctx) error {
	id, err := paramID(c, contactNotFound)
	if err != nil {
		return err
	}
	if err := ic.contacts.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return response.NoContent(c)
}

// HandleSubmissions lists submissions, optionally filtered by ?status=new|approved|rejected.
func (ic *InboxController) HandleSubmissions(c *fiber.Ctx) error {
	page, err := ic.submissions.List(c.UserContext(), listQuery(c, content.ScopeAdmin))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (ic *InboxController) HandleSubmissionShow(c *fiber.Ctx) error {
	id, err := paramID(c, submissionNotFound)
	if err != nil {
		return err
	}
	sub, err := ic.submissions.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, sub)
}

// HandleSubmissionApprove turns a pending submission into an inactive story draft.
func (ic *InboxController) HandleSubmissionApprove(c *fiber.Ctx) error {
	id, err := paramID(c, submissionNotFound)
	if err != nil {
		return err
	}
	story, err := ic.submissions.Approve(c.UserContext(), usercontext.GetActor(c), id)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Submission approved. The story was saved as a draft.", story)
}

func (ic *InboxController) HandleSubmissionReject(c *fiber.Ctx) error {
	id, err := paramID(c, submissionNotFound)
	if err != nil {
		return err
	}
	var in services.RejectInput
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return err
		}
	}
	sub, err := ic.submissions.Reject(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Submission rejected", sub)
}

func (ic *InboxController) HandleSubmissionDelete(c *fiber.Ctx) error {
	id, err := paramID(c, submissionNotFound)
	if err != nil {
		return err
	}
	if err := ic.submissions.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return response.NoContent(c)
}
