// Package raster captures rendered résumé HTML into a single tall raster
// image using a headless browser.
package raster

import "fmt"

// CaptureError represents a failure reading the preview document: missing
// capture root, zero content height, or a browser-side error.
type CaptureError struct {
	Message string
	Cause   error
}

func (e *CaptureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("capture error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("capture error: %s", e.Message)
}

func (e *CaptureError) Unwrap() error {
	return e.Cause
}
