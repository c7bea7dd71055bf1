package spendapi

import (
	"errors"
	"fmt"
	"net/http"
)

// InvalidParameterError is returned for malformed or inconsistent query parameters (400).
type InvalidParameterError struct {
	Detail string
}

func (e *InvalidParameterError) Error() string { return e.Detail }

// UnprocessableEntityError is returned for well formed parameters with unusable values (422).
type UnprocessableEntityError struct {
	Detail string
}

func (e *UnprocessableEntityError) Error() string { return e.Detail }

// NotFoundError is returned when the requested resource does not exist (404).
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string { return e.Detail }

func invalidParameter(format string, args ...any) error {
	return &InvalidParameterError{Detail: fmt.Sprintf(format, args...)}
}

func unprocessableEntity(format string, args ...any) error {
	return &UnprocessableEntityError{Detail: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &NotFoundError{Detail: fmt.Sprintf(format, args...)}
}

// statusOf maps an error to the status code and detail sent to the client.
// Errors that are not API errors are reported as a generic server error.
func statusOf(err error) (int, string) {
	var invalid *InvalidParameterError
	var unprocessable *UnprocessableEntityError
	var missing *NotFoundError

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Detail
	case errors.As(err, &unprocessable):
		return http.StatusUnprocessableEntity, unprocessable.Detail
	case errors.As(err, &missing):
		return http.StatusNotFound, missing.Detail
	default:
		return http.StatusInternalServerError, "an internal error occurred"
	}
}
