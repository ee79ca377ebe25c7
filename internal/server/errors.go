package server

import (
	"errors"
	"net/http"
)

// Sentinel errors for the API layer. Handlers translate them to HTTP status
// codes through HTTPStatus.
var (
	// ErrInvalidCredentials indicates a failed service login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionNotFound indicates the requested editing session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrValidation indicates the request body failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrDownloadConsumed indicates the session's one-shot download was
	// already delivered and has not been rearmed.
	ErrDownloadConsumed = errors.New("download already delivered")
)

// HTTPStatus maps an API error to its HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDownloadConsumed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
