package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindInvalidState
	KindConflict
	KindValidation
)

// AppError is the error type services return. Handlers (and the global
// Fiber error handler) map its kind onto an HTTP status.
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindInvalidState:
		return fiber.StatusUnprocessableEntity
	case KindValidation:
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func InvalidState(message string) *AppError {
	return &AppError{Kind: KindInvalidState, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
