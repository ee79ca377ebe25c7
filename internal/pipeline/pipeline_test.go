package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-preview/internal/raster"
	"github.com/jonathan/resume-preview/internal/types"
)

// fakeCapturer returns a fixed-height raster without a browser.
type fakeCapturer struct {
	mu     sync.Mutex
	calls  int
	height int
	err    error
}

func (f *fakeCapturer) Capture(_ context.Context, html string) (image.Image, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, raster.LetterWidthPx*2, f.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img, nil
}

func testContent() *types.ResumeContent {
	return &types.ResumeContent{
		Personal: types.PersonalInfo{FullName: "Ada Lovelace"},
		Summary:  "Engineer.",
		Experience: []types.Experience{
			{Company: "Analytical Engines", Role: "Engineer", StartDate: "2018-01", EndDate: "present", Bullets: []string{"Built the thing"}},
		},
	}
}

func TestGenerate_SinglePage(t *testing.T) {
	fc := &fakeCapturer{height: 1500}
	gen := New(fc, raster.DefaultOptions())

	blob, pages, err := gen.Generate(context.Background(), testContent(), types.DefaultRenderSettings())
	require.NoError(t, err)

	assert.Equal(t, 1, pages, "1500px at 2112px/page is one page")
	assert.True(t, bytes.HasPrefix(blob, []byte("%PDF")))
	assert.Equal(t, 1, fc.calls)
}

func TestGenerate_ThreePagesFromTallCapture(t *testing.T) {
	// 2400 CSS px of content at 2x oversampling is 4800 raster px; at a
	// 2112px oversampled page that is ceil(4800/2112) = 3 pages.
	fc := &fakeCapturer{height: 4800}
	gen := New(fc, raster.DefaultOptions())

	_, pages, err := gen.Generate(context.Background(), testContent(), types.DefaultRenderSettings())
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestGenerate_ExactPageMultiple(t *testing.T) {
	fc := &fakeCapturer{height: 2112}
	gen := New(fc, raster.DefaultOptions())

	_, pages, err := gen.Generate(context.Background(), testContent(), types.DefaultRenderSettings())
	require.NoError(t, err)
	assert.Equal(t, 1, pages, "exact multiple must not add a trailing empty page")
}

func TestGenerate_Deterministic(t *testing.T) {
	fc := &fakeCapturer{height: 2000}
	gen := New(fc, raster.DefaultOptions())

	a, _, err := gen.Generate(context.Background(), testContent(), types.DefaultRenderSettings())
	require.NoError(t, err)
	b, _, err := gen.Generate(context.Background(), testContent(), types.DefaultRenderSettings())
	require.NoError(t, err)

	assert.Equal(t, a, b, "equal content must produce byte-identical documents")
}

func TestGenerate_CaptureFailurePropagates(t *testing.T) {
	fc := &fakeCapturer{err: &raster.CaptureError{Message: "node detached"}}
	gen := New(fc, raster.DefaultOptions())

	_, _, err := gen.Generate(context.Background(), testContent(), types.DefaultRenderSettings())
	require.Error(t, err)

	var capErr *raster.CaptureError
	assert.ErrorAs(t, err, &capErr)
}

func TestGenerate_RenderFailure(t *testing.T) {
	fc := &fakeCapturer{height: 1000}
	gen := New(fc, raster.DefaultOptions())

	content := testContent()
	content.TemplateID = "no-such-template"

	_, _, err := gen.Generate(context.Background(), content, types.DefaultRenderSettings())
	require.Error(t, err)
	assert.Equal(t, 0, fc.calls, "capture must not run when rendering fails")
}
