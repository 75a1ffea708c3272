package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Tokens
	ErrInvalidSigningMethod = errors.New("invalid token signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")

	// Authorization
	ErrEmptyAuthHeader   = errors.New("authorization header is missing")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	ErrInvalidLogin      = errors.New("invalid email or password")
	ErrAccountLocked     = errors.New("account temporarily locked, try again later")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")

	// Context
	ErrUserIDNotFoundInContext = errors.New("user id not found in request context")

	// Common
	ErrNotFound   = errors.New("record not found")
	ErrBadRequest = errors.New("bad request")
)

// HttpError carries an HTTP status and a client-safe message alongside the
// wrapped internal error. The internal error and Context are for logs only
// and are never serialized into a response.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, logCtx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: logCtx}
}

// InvalidInputError marks a business validation failure. Controllers map it
// to HTTP 400 with the message as-is.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// Status resolves the HTTP status code for err. Unknown errors map to 500
// so that driver and ORM detail stays out of the response body.
func Status(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	var invalidInput *InvalidInputError
	if errors.As(err, &invalidInput) {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidLogin),
		errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAccountLocked):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text that is safe to show a client.
func PublicMessage(err error) string {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	var invalidInput *InvalidInputError
	if errors.As(err, &invalidInput) {
		return invalidInput.Message
	}
	if Status(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
