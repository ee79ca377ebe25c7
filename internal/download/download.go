// Package download delivers a finished document blob to the user exactly
// once per workflow lifecycle.
package download

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/jonathan/resume-preview/internal/types"
)

// DefaultFilename is used when the résumé carries neither a name nor a
// title.
const DefaultFilename = "Resume.pdf"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_\-]`)

// Trigger guards one download workflow: however many times the surrounding
// UI re-renders and re-invokes it, only the first Send within a lifecycle
// performs the save. Reset starts a new lifecycle when the workflow is
// closed and reopened.
type Trigger struct {
	mu   sync.Mutex
	sent bool
}

// NewTrigger returns a trigger for a fresh workflow lifecycle.
func NewTrigger() *Trigger {
	return &Trigger{}
}

// Send writes the blob to w with the given filename once per lifecycle.
// The boolean reports whether a save was actually performed; a suppressed
// duplicate is (false, nil) by design, not an error.
func (t *Trigger) Send(w io.Writer, blob []byte) (bool, error) {
	t.mu.Lock()
	if t.sent {
		t.mu.Unlock()
		return false, nil
	}
	t.sent = true
	t.mu.Unlock()

	if _, err := w.Write(blob); err != nil {
		return true, fmt.Errorf("writing document: %w", err)
	}
	return true, nil
}

// Sent reports whether this lifecycle has already performed its download.
func (t *Trigger) Sent() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sent
}

// Reset begins a new lifecycle, re-arming the trigger.
func (t *Trigger) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = false
}

// Filename derives the download filename from résumé content: the
// subject's full name with spaces collapsed to underscores, falling back
// to the document title, then to DefaultFilename.
func Filename(content *types.ResumeContent) string {
	if content == nil {
		return DefaultFilename
	}

	base := strings.TrimSpace(content.Personal.FullName)
	if base == "" {
		base = strings.TrimSpace(content.Title)
	}
	if base == "" {
		return DefaultFilename
	}

	slug := slugify(base)
	if slug == "" {
		return DefaultFilename
	}
	return "Resume_" + slug + ".pdf"
}

// slugify converts free text into a filename-safe token: spaces become
// underscores, anything else unsafe is dropped.
func slugify(s string) string {
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	return strings.Trim(s, "_")
}
