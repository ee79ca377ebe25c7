// Package types provides type definitions for structured data used throughout the resume-preview system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateSessionRequest opens a new editing session with an initial résumé.
type CreateSessionRequest struct {
	Content  ResumeContent  `json:"content" validate:"required"`
	Settings RenderSettings `json:"settings"`
}

// UpdateContentRequest pushes an edited résumé into an existing session.
type UpdateContentRequest struct {
	Content  ResumeContent  `json:"content" validate:"required"`
	Settings RenderSettings `json:"settings"`
}

// LoginRequest is the service login request.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the authentication token for subsequent calls.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes an editing session for API responses.
type SessionResponse struct {
	ID          uuid.UUID `json:"id"`
	State       string    `json:"state"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Pages       int       `json:"pages,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate validates the CreateSessionRequest using the validator.
func (r *CreateSessionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateContentRequest using the validator.
func (r *UpdateContentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
