package controllers

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/storage"
)

// paramID parses the :id route parameter. Anything that is not a positive
// integer cannot name a row, so it is reported as not found.
func paramID(c *fiber.Ctx, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound(notFound)
	}
	return uint(id), nil
}

// listQuery reads the common listing filters from the query string. The page
// size is fixed per entity by the service.
func listQuery(c *fiber.Ctx, scope string) content.ListQuery {
	return content.ListQuery{
		Page:     c.QueryInt("page", 1),
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Scope:    scope,
	}
}

// bindJSON decodes the request body into dst.
func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}

// formBool reads a multipart/form boolean such as is_public=1.
func formBool(c *fiber.Ctx, key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(c.FormValue(key))) {
	case "1", "true", "on", "yes":
		return true
	case "0", "false", "off", "no":
		return false
	default:
		return def
	}
}

// formUpload opens the multipart file in field. The caller closes the returned reader.
func formUpload(c *fiber.Ctx, field string) (services.FileUpload, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return services.FileUpload{}, nil, apperr.Field(field, "Please choose a file to upload")
	}
	f, err := fh.Open()
	if err != nil {
		return services.FileUpload{}, nil, apperr.Internal("Could not read the upload", err)
	}
	return services.FileUpload{Filename: fh.Filename, Size: fh.Size, Content: f}, f, nil
}

// sendObject streams obj as a file download named name.
func sendObject(c *fiber.Ctx, name string, obj *storage.Object) error {
	contentType := obj.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, contentType)
	size := -1
	if obj.Size > 0 {
		size = int(obj.Size)
	}
	return c.SendStream(obj.Body, size)
}
