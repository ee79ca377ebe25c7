// Package raster - chrome.go implements capture with a headless Chrome
// instance driven over the DevTools protocol.
package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-preview/internal/rendering"
)

// ChromeCapturer rasterizes documents with headless Chrome. Each Capture
// call runs a fresh browser context, so a crashed render cannot poison the
// next one.
type ChromeCapturer struct {
	opts *Options
}

// NewChromeCapturer creates a capturer with the given options; nil uses
// defaults.
func NewChromeCapturer(opts *Options) *ChromeCapturer {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &ChromeCapturer{opts: opts}
}

// captureRegion is the preview root's geometry reported from the page,
// measured after entering capture mode.
type captureRegion struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// enterCaptureJS neutralizes any transform/clipping styles that would
// distort or truncate capture, remembering the prior inline styles so they
// can be restored. Returns null when the preview root is missing.
const enterCaptureJS = `(() => {
	const el = document.querySelector('` + rendering.PreviewRootSelector + `');
	if (!el) { return null; }
	window.__captureSaved = {
		transform: el.style.transform,
		overflow: el.style.overflow,
		position: el.style.position,
		margin: el.style.margin,
		docOverflow: document.documentElement.style.overflow,
		bodyOverflow: document.body.style.overflow,
	};
	el.style.transform = 'none';
	el.style.overflow = 'visible';
	el.style.position = 'static';
	el.style.margin = '0';
	document.documentElement.style.overflow = 'visible';
	document.body.style.overflow = 'visible';
	const r = el.getBoundingClientRect();
	return { x: r.x, y: r.y, width: r.width, height: el.scrollHeight };
})()`

// exitCaptureJS restores the inline styles saved by enterCaptureJS.
const exitCaptureJS = `(() => {
	const el = document.querySelector('` + rendering.PreviewRootSelector + `');
	const saved = window.__captureSaved;
	if (!el || !saved) { return false; }
	el.style.transform = saved.transform;
	el.style.overflow = saved.overflow;
	el.style.position = saved.position;
	el.style.margin = saved.margin;
	document.documentElement.style.overflow = saved.docOverflow;
	document.body.style.overflow = saved.bodyOverflow;
	delete window.__captureSaved;
	return true;
})()`

// Capture loads the document, enters capture mode, and screenshots the
// preview root at full scrollable height and the configured oversampling.
// The capture-mode style mutation is reverted on every exit path, including
// when the screenshot itself fails.
func (c *ChromeCapturer) Capture(ctx context.Context, html string) (image.Image, error) {
	if html == "" {
		return nil, &CaptureError{Message: "empty document"}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if c.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(c.opts.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, c.opts.Timeout)
	defer cancelTimeout()

	// Serve the document from a temp file so relative resources and file
	// URLs behave like the real preview.
	tmpDir, err := os.MkdirTemp("", "resume-preview-")
	if err != nil {
		return nil, &CaptureError{Message: "creating capture workspace", Cause: err}
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, &CaptureError{Message: "writing capture document", Cause: err}
	}

	var shot []byte
	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(c.opts.WidthPx), LetterHeightPx),
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady(rendering.PreviewRootSelector),
		chromedp.Sleep(c.opts.SettleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var region *captureRegion
			if err := chromedp.Evaluate(enterCaptureJS, &region).Do(ctx); err != nil {
				return &CaptureError{Message: "entering capture mode", Cause: err}
			}
			if region == nil {
				return &CaptureError{Message: "preview root not found"}
			}
			// Restore styles no matter how capture exits.
			defer func() {
				var restored bool
				_ = chromedp.Evaluate(exitCaptureJS, &restored).Do(ctx)
			}()

			if region.Height <= 0 {
				return &CaptureError{Message: "preview root has zero height"}
			}

			height := int64(math.Ceil(region.Height))
			if err := emulation.SetDeviceMetricsOverride(int64(c.opts.WidthPx), height, 1, false).Do(ctx); err != nil {
				return &CaptureError{Message: "resizing viewport for capture", Cause: err}
			}

			var captureErr error
			shot, captureErr = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				WithClip(&page.Viewport{
					X:      region.X,
					Y:      region.Y,
					Width:  float64(c.opts.WidthPx),
					Height: region.Height,
					Scale:  c.opts.Oversample,
				}).
				Do(ctx)
			if captureErr != nil {
				return &CaptureError{Message: "screenshot failed", Cause: captureErr}
			}
			return nil
		}),
	)
	if err != nil {
		var capErr *CaptureError
		if errors.As(err, &capErr) {
			return nil, capErr
		}
		return nil, &CaptureError{Message: "browser run failed", Cause: err}
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, &CaptureError{Message: "decoding screenshot", Cause: err}
	}
	if img.Bounds().Dy() == 0 {
		return nil, &CaptureError{Message: "screenshot has zero height"}
	}
	return img, nil
}
