// Package rendering - inspect.go provides sanity checks over rendered HTML
// before it is handed to the capture pipeline.
package rendering

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// VerifyPreviewRoot checks that the rendered document contains exactly one
// capture root with visible content. Capturing a document without a root
// would produce an empty raster, so this is caught before Chrome is started.
func VerifyPreviewRoot(html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &RenderError{Message: "failed to parse rendered HTML", Cause: err}
	}

	root := doc.Find(PreviewRootSelector)
	if root.Length() == 0 {
		return &RenderError{Message: "rendered HTML has no preview root " + PreviewRootSelector}
	}
	if root.Length() > 1 {
		return &RenderError{Message: "rendered HTML has multiple preview roots"}
	}
	if strings.TrimSpace(root.Text()) == "" {
		return &RenderError{Message: "preview root has no visible content"}
	}
	return nil
}

// ExtractFullName pulls the subject's display name out of rendered HTML,
// used as a filename fallback when the structured content has no name. The
// first heading inside the preview root is the name in every built-in
// template; the document title is the last resort.
func ExtractFullName(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if h1 := doc.Find(PreviewRootSelector + " h1").First(); h1.Length() > 0 {
		if name := strings.TrimSpace(h1.Text()); name != "" {
			return name
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
