// Package pipeline provides the high-level orchestration for document
// generation: render, capture, paginate, assemble.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-preview/internal/assemble"
	"github.com/jonathan/resume-preview/internal/paginate"
	"github.com/jonathan/resume-preview/internal/raster"
	"github.com/jonathan/resume-preview/internal/rendering"
	"github.com/jonathan/resume-preview/internal/types"
)

// Generator runs the full render→capture→paginate→assemble pipeline. It
// satisfies the coordinator's Generator contract; the coordinator
// guarantees calls never overlap.
type Generator struct {
	capturer raster.Capturer
	opts     *raster.Options
	pageSize assemble.PageSize
	verbose  bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithPageSize overrides the physical page size (default Letter).
func WithPageSize(size assemble.PageSize) Option {
	return func(g *Generator) { g.pageSize = size }
}

// WithVerbose enables step-by-step log output.
func WithVerbose(verbose bool) Option {
	return func(g *Generator) { g.verbose = verbose }
}

// New creates a pipeline around the given capturer. opts describes the
// capture geometry and must match the capturer's configuration; nil uses
// defaults.
func New(capturer raster.Capturer, opts *raster.Options, options ...Option) *Generator {
	if opts == nil {
		opts = raster.DefaultOptions()
	}
	g := &Generator{
		capturer: capturer,
		opts:     opts,
		pageSize: assemble.Letter,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Generate produces a finished document blob for the given content and
// settings, returning the blob and its page count.
func (g *Generator) Generate(ctx context.Context, content *types.ResumeContent, settings types.RenderSettings) ([]byte, int, error) {
	html, err := rendering.RenderHTML(content, settings)
	if err != nil {
		return nil, 0, fmt.Errorf("rendering resume HTML: %w", err)
	}
	if err := rendering.VerifyPreviewRoot(html); err != nil {
		return nil, 0, fmt.Errorf("verifying preview document: %w", err)
	}

	if g.verbose {
		log.Printf("[PIPELINE] Capturing document (%d bytes of HTML)", len(html))
	}
	raw, err := g.capturer.Capture(ctx, html)
	if err != nil {
		return nil, 0, fmt.Errorf("capturing preview: %w", err)
	}

	pages, err := paginate.Paginate(raw, g.opts.PageHeightPx())
	if err != nil {
		return nil, 0, fmt.Errorf("paginating capture: %w", err)
	}
	if g.verbose {
		log.Printf("[PIPELINE] Capture is %dpx tall, split into %d page(s)", raw.Bounds().Dy(), len(pages))
	}

	blob, err := assemble.Assemble(pages, g.pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("assembling document: %w", err)
	}

	return blob, len(pages), nil
}
