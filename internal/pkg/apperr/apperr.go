// Package apperr is the error taxonomy shared by services and controllers.
// Services return these; the Fiber error handler turns them into responses.
package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindValidation          Kind = "VALIDATION_ERROR"
	KindStorageUnavailable  Kind = "STORAGE_UNAVAILABLE"
	KindUpstreamUnavailable Kind = "UPSTREAM_UNAVAILABLE"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindForbidden           Kind = "FORBIDDEN"
	KindConflict            Kind = "CONFLICT"
	KindInternal            Kind = "INTERNAL_ERROR"
)

// Error carries a kind, a caller-safe message and optional per-field messages.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{Kind: KindNotFound, Message: message}
}

// Validation builds a ValidationFailed error from field -> message pairs.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

// Field is shorthand for a single-field validation failure.
func Field(field, message string) *Error {
	return Validation(map[string]string{field: message})
}

func StorageUnavailable(err error) *Error {
	return &Error{Kind: KindStorageUnavailable, Message: "File storage unavailable", Err: err}
}

func UpstreamUnavailable(err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Message: "Upstream service unavailable", Err: err}
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Login required"
	}
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Access forbidden"
	}
	return &Error{Kind: KindForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected failure; the message is what the caller sees.
func Internal(message string, err error) *Error {
	if message == "" {
		message = "Something went wrong"
	}
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf classifies any error. gorm's record-not-found counts as NotFound.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// FromStore converts repository errors: missing rows become NotFound with the
// given message, everything else is an internal failure.
func FromStore(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFoundMessage)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Conflict("This entry conflicts with an existing one, please try again")
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("", err)
}
