package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/resume-preview/internal/download"
	"github.com/jonathan/resume-preview/internal/schemas"
	"github.com/jonathan/resume-preview/internal/types"
)

// handleLogin exchanges the service password for a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "password is required")
		return
	}

	if !s.passwordConfig.VerifyServicePassword(req.Password) {
		s.errorResponse(w, HTTPStatus(ErrInvalidCredentials), ErrInvalidCredentials.Error())
		return
	}

	token, expiresAt, err := s.jwtService.GenerateToken(uuid.New())
	if err != nil {
		log.Printf("Token generation failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// handleCreateSession opens a new editing session with an initial résumé.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req types.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(ErrValidation), err.Error())
		return
	}
	if err := validateContent(&req.Content); err != nil {
		s.errorResponse(w, HTTPStatus(ErrValidation), err.Error())
		return
	}

	settings := req.Settings
	if settings == (types.RenderSettings{}) {
		settings = types.DefaultRenderSettings()
	}

	session := s.registry.Create(&req.Content, settings)
	if s.verbose {
		log.Printf("[SESSION] Created %s (%d live)", session.ID, s.registry.Len())
	}
	s.jsonResponse(w, http.StatusCreated, session.Response())
}

// handleUpdateContent pushes an edited résumé into a session. Regeneration
// is debounced by the coordinator, so rapid edits are cheap.
func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req types.UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(ErrValidation), err.Error())
		return
	}
	if err := validateContent(&req.Content); err != nil {
		s.errorResponse(w, HTTPStatus(ErrValidation), err.Error())
		return
	}

	settings := req.Settings
	if settings == (types.RenderSettings{}) {
		settings = types.DefaultRenderSettings()
	}

	session.SetContent(&req.Content, settings)
	session.coord.Update(&req.Content, settings)
	s.jsonResponse(w, http.StatusOK, session.Response())
}

// handlePreview activates preview for the session: generation starts
// immediately, bypassing the debounce.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	content, settings := session.Content()
	session.coord.Activate(content, settings)
	s.jsonResponse(w, http.StatusOK, session.Response())
}

// handleState returns the session's current coordinator snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, session.Response())
}

// handleDownload streams the session's PDF exactly once per arm of the
// trigger. It reuses the cached document when the fingerprint still
// matches and generates synchronously otherwise.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	if session.trigger.Sent() {
		s.errorResponse(w, HTTPStatus(ErrDownloadConsumed), ErrDownloadConsumed.Error())
		return
	}

	content, settings := session.Content()
	blob, err := session.coord.Download(r.Context(), content, settings)
	if err != nil {
		log.Printf("Download generation failed for session %s: %v", session.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "document generation failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename(content)))
	w.Header().Set("Content-Length", strconv.Itoa(len(blob)))

	sent, err := session.trigger.Send(w, blob)
	if err != nil {
		log.Printf("Download write failed for session %s: %v", session.ID, err)
		return
	}
	if !sent {
		// Lost a race with a concurrent download request. Nothing was
		// written yet, so the headers can still be replaced.
		w.Header().Del("Content-Disposition")
		w.Header().Del("Content-Length")
		s.errorResponse(w, HTTPStatus(ErrDownloadConsumed), ErrDownloadConsumed.Error())
	}
}

// handleDownloadReset rearms the session's one-shot download trigger.
func (s *Server) handleDownloadReset(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	session.trigger.Reset()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "rearmed"})
}

// handleDeleteSession closes an editing session and frees its cache.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	if err := s.registry.Delete(id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth is the liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionFromRequest resolves the {id} path value to a live session,
// writing the error response itself on failure.
func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID format")
		return nil, false
	}
	session, err := s.registry.Get(id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, false
	}
	return session, true
}

// validateContent checks the résumé against the JSON schema, catching
// structural problems the struct validator cannot express.
func validateContent(content *types.ResumeContent) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := schemas.ValidateResumeJSON(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
