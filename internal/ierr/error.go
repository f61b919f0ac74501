package ierr

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeInvalidArgument ErrorCode = "InvalidArgument"
	ErrorCodeNotFound        ErrorCode = "NotFound"
	ErrorCodeUnavailable     ErrorCode = "Unavailable"
	ErrorCodeInternal        ErrorCode = "Internal"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`

	cause error
}

func New(code ErrorCode, cause error) Error {
	return Error{
		Code:    code,
		Message: cause.Error(),
		cause:   cause,
	}
}

// WithMessage replaces the caller-facing message and keeps the cause for logs.
func WithMessage(code ErrorCode, message string, cause error) Error {
	return Error{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

func (e Error) Error() string {
	return string(e.Code) + ": " + e.cause.Error()
}

func (e Error) Unwrap() error {
	return e.cause
}

func (e Error) HTTPStatus() int {
	switch e.Code {
	case ErrorCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatus returns the status code for err, 500 when it is not an Error.
func HTTPStatus(err error) int {
	var e Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}

	return http.StatusInternalServerError
}
