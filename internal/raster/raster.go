// Package raster captures rendered résumé HTML into a single tall raster
// image using a headless browser.
package raster

import (
	"context"
	"image"
	"time"
)

// Letter page dimensions in CSS pixels at 96 DPI.
const (
	LetterWidthPx  = 816  // 8.5in
	LetterHeightPx = 1056 // 11in
)

// DefaultOversample is the capture scale factor for print-quality output.
const DefaultOversample = 2.0

// Capturer converts a rendered HTML document into a raster image of its
// full content height. Implementations must be safe for sequential reuse;
// the coordinator guarantees calls are never concurrent.
type Capturer interface {
	Capture(ctx context.Context, html string) (image.Image, error)
}

// Options configures the Chrome-backed capturer.
type Options struct {
	// WidthPx is the fixed capture width in CSS pixels.
	WidthPx int
	// Oversample scales the raster beyond CSS pixels for print quality.
	Oversample float64
	// SettleDelay is the wait after load before capture, letting layout
	// and web fonts stabilize.
	SettleDelay time.Duration
	// Timeout bounds a single capture, including browser startup.
	Timeout time.Duration
	// ChromePath overrides the browser binary; empty uses the default
	// lookup.
	ChromePath string
}

// DefaultOptions returns the capture settings used in production.
func DefaultOptions() *Options {
	return &Options{
		WidthPx:     LetterWidthPx,
		Oversample:  DefaultOversample,
		SettleDelay: 300 * time.Millisecond,
		Timeout:     60 * time.Second,
	}
}

// PageHeightPx returns the height of one physical page in the oversampled
// pixel space produced by a capturer with the given options.
func (o *Options) PageHeightPx() int {
	return int(float64(LetterHeightPx) * o.Oversample)
}
