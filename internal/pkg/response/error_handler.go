package response

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindNotFound:            fiber.StatusNotFound,
	apperr.KindValidation:          fiber.StatusUnprocessableEntity,
	apperr.KindStorageUnavailable:  fiber.StatusNotFound,
	apperr.KindUpstreamUnavailable: fiber.StatusBadGateway,
	apperr.KindUnauthorized:        fiber.StatusUnauthorized,
	apperr.KindForbidden:           fiber.StatusForbidden,
	apperr.KindConflict:            fiber.StatusConflict,
	apperr.KindInternal:            fiber.StatusInternalServerError,
}

// ErrorHandler is the single place where service errors become HTTP responses.
// Storage failures are reported to the requester as not found; internal
// failures are logged with request context and answered with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return Error(c, fiberErr.Code, fiberErr.Message, codeForStatus(fiberErr.Code))
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.FromStore(err, "Resource not found").(*apperr.Error)
	}

	userID := usercontext.GetUserID(c)
	switch appErr.Kind {
	case apperr.KindInternal:
		log.Errorf("[HTTP] %s %s (user %d, payload %q): %v", c.Method(), c.Path(), userID, payloadSnippet(c), appErr.Err)
	case apperr.KindStorageUnavailable:
		log.Warnf("[HTTP] %s %s (user %d): storage: %v", c.Method(), c.Path(), userID, appErr.Err)
		return Error(c, fiber.StatusNotFound, "File not found", string(apperr.KindNotFound))
	}

	status, ok := statusByKind[appErr.Kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    string(appErr.Kind),
			Message: appErr.Message,
			Fields:  appErr.Fields,
		},
	})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return string(apperr.KindNotFound)
	case fiber.StatusUnauthorized:
		return string(apperr.KindUnauthorized)
	case fiber.StatusForbidden:
		return string(apperr.KindForbidden)
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		if status >= 500 {
			return string(apperr.KindInternal)
		}
		return "ERROR"
	}
}

// payloadSnippet returns the start of a non-multipart request body for logs.
func payloadSnippet(c *fiber.Ctx) string {
	if len(c.Body()) == 0 {
		return ""
	}
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return "<multipart>"
	}
	body := c.Body()
	if len(body) > 512 {
		body = body[:512]
	}
	return string(body)
}
