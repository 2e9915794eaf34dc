package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when the username is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when a favorites operation has no resolved session identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is returned for a non-positive or malformed item id or missing fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForgeryCheckFailed is returned when the anti-forgery token is absent or wrong.
	ErrForgeryCheckFailed = errors.New("forgery check failed")
	// ErrStorageUnavailable is returned when the database or session store cannot be reached in time.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when creating a user with a taken username.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// User-facing messages. Both credential failure cases share one message.
const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgUnauthorized       = "Please log in to save favorites."
	MsgInvalidInput       = "Invalid page."
	MsgInvalidRequest     = "Invalid request."
	MsgUnavailable        = "Service temporarily unavailable."
	MsgInternal           = "Could not complete the request."
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
}

// Retryable reports whether the caller may retry the failed operation unchanged.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusServiceUnavailable
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, MsgInvalidCredentials, "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, MsgUnauthorized, "UNAUTHORIZED")
	case errors.Is(err, ErrForgeryCheckFailed):
		return NewHTTPError(http.StatusForbidden, MsgInvalidRequest, "FORGERY_CHECK_FAILED")
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, MsgInvalidInput, "INVALID_INPUT")
	case errors.Is(err, ErrStorageUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, MsgUnavailable, "STORAGE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, MsgInternal, "INTERNAL_ERROR")
	}
}
