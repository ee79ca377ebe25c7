// Package assemble wraps paginated raster pages into a downloadable PDF
// document.
package assemble

import (
	"fmt"

	"github.com/signintech/gopdf"

	"github.com/jonathan/resume-preview/internal/paginate"
)

// PageSize is a physical page size in PDF points (1/72 in).
type PageSize struct {
	Width  float64
	Height float64
}

// Letter is 8.5x11in expressed in points.
var Letter = PageSize{Width: 612, Height: 792}

// Assemble creates one PDF page per raster page, in order, with each page
// image embedded at full page bounds, and serializes the result. The output
// is non-empty whenever pages is non-empty.
func Assemble(pages []paginate.Page, size PageSize) ([]byte, error) {
	if len(pages) == 0 {
		return nil, &AssemblyError{Message: "no pages to assemble"}
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{
		Unit:     gopdf.UnitPT,
		PageSize: gopdf.Rect{W: size.Width, H: size.Height},
	})

	for _, page := range pages {
		if len(page.JPEG) == 0 {
			return nil, &AssemblyError{
				Message: fmt.Sprintf("page %d has no encoded image", page.Index),
			}
		}

		holder, err := gopdf.ImageHolderByBytes(page.JPEG)
		if err != nil {
			return nil, &AssemblyError{
				Message: fmt.Sprintf("creating image holder for page %d", page.Index),
				Cause:   err,
			}
		}

		pdf.AddPage()
		rect := &gopdf.Rect{W: size.Width, H: size.Height}
		if err := pdf.ImageByHolder(holder, 0, 0, rect); err != nil {
			return nil, &AssemblyError{
				Message: fmt.Sprintf("embedding image on page %d", page.Index),
				Cause:   err,
			}
		}
	}

	blob, err := pdf.GetBytesPdfReturnErr()
	if err != nil {
		return nil, &AssemblyError{Message: "serializing document", Cause: err}
	}
	if len(blob) == 0 {
		return nil, &AssemblyError{Message: "serialized document is empty"}
	}
	return blob, nil
}
