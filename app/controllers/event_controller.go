package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

const eventNotFound = "Event not found"

// EventController serves the events calendar and its attachments.
type EventController struct {
	events *services.EventService
}

func NewEventController(events *services.EventService) *EventController {
	return &EventController{events: events}
}

func (ec *EventController) HandleIndex(c *fiber.Ctx) error {
	page, err := ec.events.List(c.UserContext(), listQuery(c, content.ScopePublic))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (ec *EventController) HandleAdminIndex(c *fiber.Ctx) error {
	page, err := ec.events.List(c.UserContext(), listQuery(c, content.ScopeAdmin))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (ec *EventController) HandleShow(c *fiber.Ctx) error {
	id, err := paramID(c, eventNotFound)
	if err != nil {
		return err
	}
	event, err := ec.events.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, event)
}

// HandleAttachment streams the event's attachment.
func (ec *EventController) HandleAttachment(c *fiber.Ctx) error {
	id, err := paramID(c, eventNotFound)
	if err != nil {
		return err
	}
	event, obj, err := ec.events.OpenAttachment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return sendObject(c, event.FileName, obj)
}

func (ec *EventController) HandleAdminStore(c *fiber.Ctx) error {
	var in services.EventInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	event, err := ec.events.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return response.Created(c, event)
}

func (ec *EventController) HandleAdminUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, eventNotFound)
	if err != nil {
		return err
	}
	var in services.EventInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	event, err := ec.events.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Event updated", event)
}

func (ec *EventController) HandleAdminDelete(c *fiber.Ctx) error {
	id, err := paramID(c, eventNotFound)
	if err != nil {
		return err
	}
	if err := ec.events.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return response.NoContent(c)
}

// HandleAdminAttach replaces the event's attachment with the multipart "file".
func (ec *EventController) HandleAdminAttach(c *fiber.Ctx) error {
	id, err := paramID(c, eventNotFound)
	if err != nil {
		return err
	}
	f, closer, err := formUpload(c, "file")
	if err != nil {
		return err
	}
	defer closer.Close()

	event, err := ec.events.Attach(c.UserContext(), id, f)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Attachment uploaded", event)
}

func (ec *EventController) HandleAdminDetach(c *fiber.Ctx) error {
	id, err := paramID(c, eventNotFound)
	if err != nil {
		return err
	}
	event, err := ec.events.Detach(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Attachment removed", event)
}

// HandleAdminPublish copies the attachment into the resources.
func (ec *EventController) HandleAdminPublish(c *fiber.Ctx) error {
	id, err := paramID(c, eventNotFound)
	if err != nil {
		return err
	}
	var req struct {
		IsPublic bool `json:"is_public"`
	}
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &req); err != nil {
			return err
		}
	}
	doc, err := ec.events.PublishAttachment(c.UserContext(), usercontext.GetActor(c), id, req.IsPublic)
	if err != nil {
		return err
	}
	return response.Created(c, doc)
}
