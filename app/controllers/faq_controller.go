package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
)

type FAQController struct {
	faqs *services.FAQService
}

func NewFAQController(faqs *services.FAQService) *FAQController {
	return &FAQController{faqs: faqs}
}

func (fc *FAQController) HandleIndex(c *fiber.Ctx) error {
	page, err := fc.faqs.List(c.UserContext(), listQuery(c, content.ScopePublic))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (fc *FAQController) HandleAdminIndex(c *fiber.Ctx) error {
	page, err := fc.faqs.List(c.UserContext(), listQuery(c, content.ScopeAdmin))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (fc *FAQController) HandleAdminShow(c *fiber.Ctx) error {
	id, err := paramID(c, "FAQ not found")
	if err != nil {
		return err
	}
	faq, err := fc.faqs.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, faq)
}

func (fc *FAQController) HandleAdminStore(c *fiber.Ctx) error {
	var in services.FAQInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	faq, err := fc.faqs.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return response.Created(c, faq)
}

func (fc *FAQController) HandleAdminUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "FAQ not found")
	if err != nil {
		return err
	}
	var in services.FAQInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	faq, err := fc.faqs.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "FAQ updated", faq)
}

func (fc *FAQController) HandleAdminDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "FAQ not found")
	if err != nil {
		return err
	}
	if err := fc.faqs.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return response.NoContent(c)
}
