// Package paginate slices a tall raster capture into discrete page-sized
// raster segments.
package paginate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"golang.org/x/sync/errgroup"
)

// jpegQuality is the encoding quality for page images embedded in the
// final document.
const jpegQuality = 90

// Page is one physical page's worth of visual content in the oversampled
// pixel space.
type Page struct {
	Index  int         // 0-based, top-to-bottom reading order
	Canvas *image.RGBA // fixed-size page canvas, white-padded below content
	JPEG   []byte      // encoded form, ready for embedding
}

// Paginate slices raw into ceil(H/P) pages of height pageHeightPx. Page i
// covers source rows [i*P, min((i+1)*P, H)); the upper bound clamp means an
// exact multiple of P never produces a trailing empty page, and H < P
// always produces exactly one page.
//
// Each slice is copied into its own canvas so a corrupt region on one page
// cannot bleed into another.
func Paginate(raw image.Image, pageHeightPx int) ([]Page, error) {
	if raw == nil {
		return nil, fmt.Errorf("paginate: raw image is nil")
	}
	if pageHeightPx <= 0 {
		return nil, fmt.Errorf("paginate: page height must be positive, got %d", pageHeightPx)
	}

	bounds := raw.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("paginate: raw image has invalid dimensions %dx%d", width, height)
	}

	count := (height + pageHeightPx - 1) / pageHeightPx
	pages := make([]Page, count)

	for i := 0; i < count; i++ {
		top := i * pageHeightPx
		bottom := top + pageHeightPx
		if bottom > height {
			bottom = height
		}

		canvas := image.NewRGBA(image.Rect(0, 0, width, pageHeightPx))
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

		src := image.Rect(bounds.Min.X, bounds.Min.Y+top, bounds.Min.X+width, bounds.Min.Y+bottom)
		draw.Draw(canvas, image.Rect(0, 0, width, bottom-top), raw, src.Min, draw.Src)

		pages[i] = Page{Index: i, Canvas: canvas}
	}

	// Encode pages concurrently; each page owns its canvas so there is no
	// shared state between goroutines.
	var g errgroup.Group
	for i := range pages {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, pages[i].Canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
				return fmt.Errorf("paginate: encoding page %d: %w", i, err)
			}
			pages[i].JPEG = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pages, nil
}

// PageCount returns the number of pages Paginate would produce for a raster
// of the given height, without doing any pixel work.
func PageCount(rasterHeight, pageHeightPx int) int {
	if rasterHeight <= 0 || pageHeightPx <= 0 {
		return 0
	}
	return (rasterHeight + pageHeightPx - 1) / pageHeightPx
}
