package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

const documentNotFound = "Document not found"

// ResourceController serves the document library: public resources and the admin uploads.
type ResourceController struct {
	documents *services.DocumentService
}

func NewResourceController(documents *services.DocumentService) *ResourceController {
	return &ResourceController{documents: documents}
}

// HandleIndex lists public, non-image documents.
func (rc *ResourceController) HandleIndex(c *fiber.Ctx) error {
	page, err := rc.documents.ListPublic(c.UserContext(), listQuery(c, content.ScopePublic))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

// HandleDownload streams a public document. Anything else is a 404.
func (rc *ResourceController) HandleDownload(c *fiber.Ctx) error {
	id, err := paramID(c, documentNotFound)
	if err != nil {
		return err
	}
	dl, err := rc.documents.OpenPublic(c.UserContext(), id)
	if err != nil {
		return err
	}
	return sendObject(c, dl.Document.OriginalFileName, dl.Object)
}

func (rc *ResourceController) HandleAdminIndex(c *fiber.Ctx) error {
	page, err := rc.documents.ListAdmin(c.UserContext(), listQuery(c, content.ScopeAdmin))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (rc *ResourceController) HandleAdminShow(c *fiber.Ctx) error {
	id, err := paramID(c, documentNotFound)
	if err != nil {
		return err
	}
	doc, err := rc.documents.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, doc)
}

func (rc *ResourceController) HandleAdminDownload(c *fiber.Ctx) error {
	id, err := paramID(c, documentNotFound)
	if err != nil {
		return err
	}
	dl, err := rc.documents.Open(c.UserContext(), id)
	if err != nil {
		return err
	}
	return sendObject(c, dl.Document.OriginalFileName, dl.Object)
}

// HandleAdminUpload stores the multipart "file"; "is_public" defaults to false.
func (rc *ResourceController) HandleAdminUpload(c *fiber.Ctx) error {
	f, closer, err := formUpload(c, "file")
	if err != nil {
		return err
	}
	defer closer.Close()

	doc, err := rc.documents.Upload(c.UserContext(), usercontext.GetActor(c), f, formBool(c, "is_public", false))
	if err != nil {
		return err
	}
	return response.Created(c, doc)
}

func (rc *ResourceController) HandleAdminUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, documentNotFound)
	if err != nil {
		return err
	}
	var in services.DocumentInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	doc, err := rc.documents.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Document updated", doc)
}

func (rc *ResourceController) HandleAdminDelete(c *fiber.Ctx) error {
	id, err := paramID(c, documentNotFound)
	if err != nil {
		return err
	}
	if err := rc.documents.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return response.NoContent(c)
}
