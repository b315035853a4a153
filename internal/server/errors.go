package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/mindtype/internal/classify"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnavailable indicates a feature that needs a backend this server was started without
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not available on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrUnavailable:
		return http.StatusServiceUnavailable
	}

	var inputErr classify.InputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ErrorCode returns the machine-readable code written next to an error message.
func ErrorCode(err error) string {
	switch err.(type) {
	case *ErrValidation:
		return "invalid_request"
	case *ErrNotFound:
		return "not_found"
	case *ErrUnavailable:
		return "unavailable"
	}
	return classify.ErrorCode(err)
}
