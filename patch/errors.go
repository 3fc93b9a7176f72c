package patch

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a patch failure carrying the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(status int, format string, args ...any) error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// BadRequest is a 400: the request cannot be understood.
func BadRequest(format string, args ...any) error {
	return newError(http.StatusBadRequest, format, args...)
}

// Unprocessable is a 422: the request is well formed but cannot be applied.
func Unprocessable(format string, args ...any) error {
	return newError(http.StatusUnprocessableEntity, format, args...)
}

// NotFound is a 404.
func NotFound(format string, args ...any) error {
	return newError(http.StatusNotFound, format, args...)
}

// StatusOf returns the HTTP status of err: the status of a wrapped *Error,
// 200 for nil and 500 otherwise.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Status
	}
	return http.StatusInternalServerError
}

// Forbidden is a 403.
func Forbidden(format string, args ...any) error {
	return newError(http.StatusForbidden, format, args...)
}
