package pipeline

import (
	"fmt"
	"image"

	"github.com/feanorMV/qrpatch/internal/geometry"
	"github.com/feanorMV/qrpatch/internal/raster"
)

// Marker is one detected marker. Records are immutable once created
// by an extraction; replacement reads them and never writes back.
type Marker struct {
	// ID is stable within one extraction session. It derives from the
	// page index and pixel position, so re-scanning an unchanged
	// source reproduces it.
	ID string `json:"id"`

	// Payload is the decoded marker content.
	Payload string `json:"payload"`

	// Rect is the bounding geometry in native units (points for PDFs,
	// pixels for images), never in an internal detection scale.
	Rect geometry.Rect `json:"rect"`

	// Page is the 1-based page index; 1 for standalone images.
	Page int `json:"page"`

	// PageWidth and PageHeight are the native page dimensions at
	// detection time.
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`

	// Preview is a crop of the marker region at detection scale.
	Preview *image.RGBA `json:"-"`
}

// PageFailure records a page whose scan ended early. Markers found on
// the page before the failure are kept in the session.
type PageFailure struct {
	Page int    `json:"page"`
	Err  string `json:"error"`
}

// Session is the result of one extraction: markers in detection order
// (scan order within a page, then page order), plus any partially
// scanned pages.
type Session struct {
	Filename     string        `json:"filename"`
	Format       string        `json:"format"`
	TotalPages   int           `json:"totalPages"`
	Markers      []Marker      `json:"markers"`
	PartialPages []PageFailure `json:"partialPages,omitempty"`
}

// Replacement asks for a new marker with the given payload drawn over
// Rect (native units) on Page.
type Replacement struct {
	Page    int           `json:"page"`
	Rect    geometry.Rect `json:"rect"`
	Payload string        `json:"payload"`
}

// markerID derives the session-stable identity from page index and
// pixel position at detection scale.
func markerID(page int, pixelBounds geometry.Rect) string {
	return fmt.Sprintf("p%d-%d-%d", page, int(pixelBounds.X), int(pixelBounds.Y))
}

// scaleFor returns the raster scale to use for the given source
// format: configured scale for PDFs, identity for images.
func scaleFor(format raster.Format, pdfScale float64) float64 {
	if format == raster.FormatPDF {
		return pdfScale
	}
	return 1.0
}
