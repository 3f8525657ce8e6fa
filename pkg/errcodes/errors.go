package errcodes

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
	// StatusCode is the upstream HTTP status for Server errors.
	StatusCode int

	cause error
}

func (err *Error) Error() string {
	if err.cause != nil {
		return err.Message + ": " + err.cause.Error()
	}
	return err.Message
}

func (err *Error) Unwrap() error {
	return err.cause
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// EmptyInput is returned when a required text input is blank after trimming.
func EmptyInput() error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  "Input can't be empty.",
		Code:     "empty_input",
	}
}

// InvalidRequest is returned when an outgoing request can't be built.
func InvalidRequest(reason string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Invalid request: " + reason,
		Code:     "invalid_request",
	}
}

// Transport wraps a network-level failure. Cancellation is reported as a
// Transport error whose cause is context.Canceled; see IsCancelled.
func Transport(err error) error {
	return &Error{
		HTTPCode: http.StatusBadGateway,
		Message:  "Couldn't reach the catalog. Check your connection and try again.",
		Code:     "transport_error",
		cause:    err,
	}
}

// Server is returned for a non-2xx upstream response.
func Server(statusCode int) error {
	return &Error{
		HTTPCode:   http.StatusBadGateway,
		Message:    fmt.Sprintf("The catalog responded with status %d.", statusCode),
		Code:       "server_error",
		StatusCode: statusCode,
	}
}

// Decoding wraps a payload that couldn't be decoded.
func Decoding(err error) error {
	return &Error{
		HTTPCode: http.StatusBadGateway,
		Message:  "Couldn't read the response.",
		Code:     "decoding_error",
		cause:    err,
	}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     "not_found",
	}
}

// ParentNotFound is returned when a child record references a missing parent.
func ParentNotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     "parent_not_found",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_error",
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}

// IsCancelled reports whether err came from a cancelled operation. Callers
// drop these silently instead of surfacing them.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func IsNotFound(err error) bool {
	return hasCode(err, "not_found")
}

func IsParentNotFound(err error) bool {
	return hasCode(err, "parent_not_found")
}

func IsEmptyInput(err error) bool {
	return hasCode(err, "empty_input")
}

func hasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

const genericMessage = "Something went wrong. Please try again."

// Message turns err into text that can be shown to the user.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return genericMessage
}
