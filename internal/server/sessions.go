package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-preview/internal/coordinator"
	"github.com/jonathan/resume-preview/internal/download"
	"github.com/jonathan/resume-preview/internal/rendercache"
	"github.com/jonathan/resume-preview/internal/types"
)

// Session is one in-memory editing session: the latest résumé snapshot, the
// coordinator driving document generation, the single-slot render cache, and
// the one-shot download trigger. Nothing is persisted; a session lives until
// it is deleted or the server stops.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	coord   *coordinator.Coordinator
	cache   *rendercache.Slot
	trigger *download.Trigger

	mu       sync.Mutex
	content  *types.ResumeContent
	settings types.RenderSettings
}

// SetContent pins the latest résumé snapshot for the session.
func (s *Session) SetContent(content *types.ResumeContent, settings types.RenderSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = content
	s.settings = settings
}

// Content returns the session's current résumé snapshot and settings.
func (s *Session) Content() (*types.ResumeContent, types.RenderSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content, s.settings
}

// Response builds the API representation of the session.
func (s *Session) Response() types.SessionResponse {
	snap := s.coord.Snapshot()
	resp := types.SessionResponse{
		ID:          s.ID,
		State:       snap.State.String(),
		Fingerprint: snap.Fingerprint,
		Pages:       snap.Pages,
		CreatedAt:   s.CreatedAt,
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	return resp
}

// Registry is the in-memory session store, keyed by session ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	gen      coordinator.Generator
	debounce time.Duration
}

// NewRegistry creates a session registry. All sessions share gen for
// document production; each gets its own coordinator and cache.
func NewRegistry(gen coordinator.Generator, debounce time.Duration) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		gen:      gen,
		debounce: debounce,
	}
}

// Create opens a new session seeded with the given résumé content.
func (r *Registry) Create(content *types.ResumeContent, settings types.RenderSettings) *Session {
	cache := rendercache.NewSlot()
	session := &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		coord:     coordinator.New(r.gen, cache, coordinator.Options{Debounce: r.debounce}),
		cache:     cache,
		trigger:   download.NewTrigger(),
		content:   content,
		settings:  settings,
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return session
}

// Get returns the session with the given ID, or ErrSessionNotFound.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete closes and removes a session. Removing an unknown ID is an error.
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	session.coord.Close()
	return nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll shuts down every session's coordinator. Used on server shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, session := range r.sessions {
		session.coord.Close()
		delete(r.sessions, id)
	}
}
