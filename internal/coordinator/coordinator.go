// Package coordinator decides, on every data or mode change, whether to
// reuse a cached document, schedule a debounced regeneration, or generate
// synchronously for an explicit download.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/resume-preview/internal/fingerprint"
	"github.com/jonathan/resume-preview/internal/rendercache"
	"github.com/jonathan/resume-preview/internal/types"
)

// DefaultDebounce is the quiet interval after the last edit before a
// regeneration starts. Résumé edits arrive in keystroke bursts; generating
// per keystroke would be wasteful and visibly janky.
const DefaultDebounce = time.Second

// State identifies the coordinator's position in its lifecycle.
type State int

const (
	// StateIdle means no document has been produced and none is in progress.
	StateIdle State = iota
	// StateGenerating means a rasterize-paginate-assemble run is in flight.
	StateGenerating
	// StateUpToDate means the cached document matches the current content.
	StateUpToDate
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateUpToDate:
		return "up_to_date"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Generator produces a finished document blob for résumé content. The
// coordinator guarantees calls are never concurrent.
type Generator interface {
	Generate(ctx context.Context, content *types.ResumeContent, settings types.RenderSettings) (blob []byte, pages int, err error)
}

// Snapshot is an observable view of the coordinator for UIs and the API:
// always renderable as loading, ready, or error.
type Snapshot struct {
	State       State
	Fingerprint string
	Pages       int
	Err         error
}

// Observer receives state snapshots after every transition.
type Observer func(Snapshot)

// target is a pinned copy of content plus settings with its fingerprint,
// recorded when a change arrives.
type target struct {
	content  *types.ResumeContent
	settings types.RenderSettings
	fp       string
}

// inflight tracks the single generation that may be running; done is closed
// when it settles, letting synchronous callers wait without polling.
type inflight struct {
	fp   string
	done chan struct{}
}

// Options configures a Coordinator.
type Options struct {
	// Debounce is the quiet interval before live-edit regeneration. Zero
	// uses DefaultDebounce.
	Debounce time.Duration
}

// Coordinator is the stateful controller for one editing session. All
// exported methods are safe for concurrent use.
type Coordinator struct {
	gen      Generator
	cache    rendercache.Cache
	debounce time.Duration

	mu        sync.Mutex
	state     State
	fp        string // fingerprint being generated or currently up to date
	pages     int
	lastErr   error
	pending   *target // latest change observed while generating
	inflight  *inflight
	debTimer  *time.Timer
	debTarget *target
	observers []Observer
	closed    bool
}

// New creates a coordinator using gen for document production and cache as
// the session's render cache.
func New(gen Generator, cache rendercache.Cache, opts Options) *Coordinator {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Coordinator{
		gen:      gen,
		cache:    cache,
		debounce: debounce,
		state:    StateIdle,
	}
}

// Subscribe registers an observer called after every state transition.
func (c *Coordinator) Subscribe(obs Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, obs)
}

// Snapshot returns the current observable state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Result returns the current document blob when the coordinator is up to
// date, or false otherwise.
func (c *Coordinator) Result() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateUpToDate {
		return nil, false
	}
	blob, ok := c.cache.Get(c.fp)
	return blob, ok
}

// Update records a data change from live editing. Regeneration is debounced:
// it starts only after a quiet interval with no further change. A cache hit
// for the new fingerprint short-circuits to up to date without any
// generation. A change arriving while a generation is in flight never
// cancels it; the change is re-evaluated once the in-flight run settles.
func (c *Coordinator) Update(content *types.ResumeContent, settings types.RenderSettings) {
	snap := target{content: content, settings: settings, fp: fingerprint.Fingerprint(content, settings)}

	c.mu.Lock()
	defer c.unlockAndNotify()

	if c.closed {
		return
	}

	switch c.state {
	case StateGenerating:
		// Non-interruptible in flight; absorb the change as pending.
		c.pending = &snap
		c.stopDebounceLocked()
	case StateUpToDate:
		if snap.fp == c.fp {
			c.stopDebounceLocked()
			return
		}
		if c.adoptCachedLocked(snap) {
			return
		}
		c.scheduleDebounceLocked(snap)
	case StateIdle:
		if c.adoptCachedLocked(snap) {
			return
		}
		c.scheduleDebounceLocked(snap)
	}
}

// Activate handles preview-mode activation: the document is needed now, so
// a cache miss starts generation immediately, without the edit debounce.
// Activation with an unchanged fingerprint reuses whatever exists and never
// triggers a duplicate generation.
func (c *Coordinator) Activate(content *types.ResumeContent, settings types.RenderSettings) {
	snap := target{content: content, settings: settings, fp: fingerprint.Fingerprint(content, settings)}

	c.mu.Lock()
	defer c.unlockAndNotify()

	if c.closed {
		return
	}

	switch c.state {
	case StateGenerating:
		if snap.fp != c.fp {
			c.pending = &snap
		}
	case StateUpToDate:
		if snap.fp == c.fp {
			return
		}
		if !c.adoptCachedLocked(snap) {
			c.stopDebounceLocked()
			c.startGenerationLocked(snap)
		}
	case StateIdle:
		if !c.adoptCachedLocked(snap) {
			c.stopDebounceLocked()
			c.startGenerationLocked(snap)
		}
	}
}

// Download returns the document for the given content, generating it
// synchronously on a cache miss. The wait is serialized against any
// in-flight generation so two generations never run concurrently and the
// preview and download blobs are byte-identical for equal fingerprints.
func (c *Coordinator) Download(ctx context.Context, content *types.ResumeContent, settings types.RenderSettings) ([]byte, error) {
	snap := target{content: content, settings: settings, fp: fingerprint.Fingerprint(content, settings)}

	for {
		c.mu.Lock()
		if blob, ok := c.cache.Get(snap.fp); ok {
			if c.state != StateGenerating {
				c.state = StateUpToDate
				c.fp = snap.fp
				c.lastErr = nil
			}
			c.unlockAndNotify()
			return blob, nil
		}

		if c.inflight != nil {
			done := c.inflight.done
			c.mu.Unlock()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-done:
			}
			continue
		}

		// No generation running: start one for our fingerprint and wait.
		c.stopDebounceLocked()
		c.startGenerationLocked(snap)
		done := c.inflight.done
		c.unlockAndNotify()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}

		c.mu.Lock()
		err := c.lastErr
		c.mu.Unlock()
		if blob, ok := c.cache.Get(snap.fp); ok {
			return blob, nil
		}
		if err != nil {
			return nil, err
		}
		// The completed run was superseded; loop and try again.
	}
}

// Close stops timers and prevents further generations from being scheduled.
// An in-flight generation is not interrupted; its result is still cached.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopDebounceLocked()
}

// adoptCachedLocked transitions straight to up to date when the cache
// already holds the fingerprint. Reports whether it did.
func (c *Coordinator) adoptCachedLocked(snap target) bool {
	if _, ok := c.cache.Get(snap.fp); !ok {
		return false
	}
	c.stopDebounceLocked()
	c.state = StateUpToDate
	c.fp = snap.fp
	c.lastErr = nil
	return true
}

// scheduleDebounceLocked (re)arms the debounce timer for snap. Every new
// edit within the window pushes the deadline out again.
func (c *Coordinator) scheduleDebounceLocked(snap target) {
	c.debTarget = &snap
	if c.debTimer != nil {
		c.debTimer.Stop()
	}
	c.debTimer = time.AfterFunc(c.debounce, c.debounceFired)
}

// stopDebounceLocked cancels any armed debounce timer.
func (c *Coordinator) stopDebounceLocked() {
	if c.debTimer != nil {
		c.debTimer.Stop()
		c.debTimer = nil
	}
	c.debTarget = nil
}

// debounceFired runs when the quiet interval elapses with no further edit.
func (c *Coordinator) debounceFired() {
	c.mu.Lock()
	defer c.unlockAndNotify()

	snap := c.debTarget
	c.debTimer = nil
	c.debTarget = nil

	if c.closed || snap == nil {
		return
	}
	if c.state == StateUpToDate && snap.fp == c.fp {
		return
	}
	if c.state == StateGenerating {
		c.pending = snap
		return
	}
	if c.adoptCachedLocked(*snap) {
		return
	}
	c.startGenerationLocked(*snap)
}

// startGenerationLocked transitions to Generating and launches the
// pipeline. Callers must hold mu and must have verified no generation is in
// flight.
func (c *Coordinator) startGenerationLocked(snap target) {
	c.state = StateGenerating
	c.fp = snap.fp
	c.lastErr = nil
	c.inflight = &inflight{fp: snap.fp, done: make(chan struct{})}
	go c.runGeneration(snap, c.inflight)
}

// runGeneration executes one full generation and applies the completion
// transition: success caches the blob and re-enters the transition logic
// for any pending fingerprint; failure lands in Idle with the error
// surfaced. Requests are never reordered because only this run may start a
// follow-up.
func (c *Coordinator) runGeneration(snap target, run *inflight) {
	blob, pages, err := c.gen.Generate(context.Background(), snap.content, snap.settings)

	c.mu.Lock()
	defer c.unlockAndNotify()

	c.inflight = nil
	defer close(run.done)

	if err != nil {
		c.state = StateIdle
		c.fp = ""
		c.pages = 0
		c.lastErr = err
		c.pending = nil
		return
	}

	c.cache.Put(snap.fp, blob)
	c.state = StateUpToDate
	c.fp = snap.fp
	c.pages = pages
	c.lastErr = nil

	pending := c.pending
	c.pending = nil
	if pending != nil && pending.fp != snap.fp && !c.closed {
		if !c.adoptCachedLocked(*pending) {
			c.startGenerationLocked(*pending)
		}
	}
}

// snapshotLocked builds an observable view. Callers must hold mu.
func (c *Coordinator) snapshotLocked() Snapshot {
	return Snapshot{
		State:       c.state,
		Fingerprint: c.fp,
		Pages:       c.pages,
		Err:         c.lastErr,
	}
}

// unlockAndNotify releases mu and delivers the current snapshot to
// observers outside the lock, so observers may call back into the
// coordinator.
func (c *Coordinator) unlockAndNotify() {
	snap := c.snapshotLocked()
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, obs := range observers {
		obs(snap)
	}
}
