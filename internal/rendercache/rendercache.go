// Package rendercache remembers the most recently produced document blob,
// keyed by content fingerprint, so independent consumers (live preview and
// download) never redo the same expensive render.
package rendercache

import "sync"

// Cache is the injectable cache contract. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the blob stored for fp, or false on a miss.
	Get(fp string) ([]byte, bool)
	// Put stores the blob for fp, overwriting any existing entry regardless
	// of its fingerprint.
	Put(fp string, blob []byte)
}

// Slot is a single-slot cache: at most one {fingerprint, blob} pair is
// retained, most recent wins, no TTL. Only one résumé is edited per session,
// so anything beyond one slot would never be read again.
type Slot struct {
	mu   sync.Mutex
	fp   string
	blob []byte
	ok   bool
}

// NewSlot returns an empty single-slot cache.
func NewSlot() *Slot {
	return &Slot{}
}

// Get returns the stored blob when fp matches the slot's fingerprint.
func (s *Slot) Get(fp string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ok || s.fp != fp {
		return nil, false
	}
	return s.blob, true
}

// Put replaces the slot's entry with {fp, blob}.
func (s *Slot) Put(fp string, blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fp = fp
	s.blob = blob
	s.ok = true
}

// Fingerprint returns the fingerprint currently held, or empty when the
// slot has never been filled.
func (s *Slot) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ok {
		return ""
	}
	return s.fp
}
