// Package compose re-renders pages with synthesized markers drawn over
// their target rectangles.
package compose

import (
	"context"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/feanorMV/qrpatch/internal/geometry"
	"github.com/feanorMV/qrpatch/internal/raster"
)

// Patch places a marker image over one rectangle given in native units.
// The marker's opaque background is what covers the original marker, so
// the rectangle must be at least as large as the original's bounding
// box; this is assumed, not checked.
type Patch struct {
	Rect   geometry.Rect
	Marker image.Image
}

// Page re-rasterizes the full page at the given scale and draws every
// patch, scaled to its rectangle, at its mapped position. Pixels
// outside patch rectangles are identical to the fresh render. The whole
// page is rendered, not just the patched regions, because downstream
// encoders consume complete pages.
func Page(ctx context.Context, doc raster.Document, page int, scale float64, patches []Patch) (*image.RGBA, error) {
	buf, err := doc.Render(ctx, page, scale)
	if err != nil {
		return nil, err
	}
	for _, p := range patches {
		Draw(buf, p, scale)
	}
	return buf, nil
}

// Draw scales the patch marker to its rectangle at the given raster
// scale and writes it into buf, clamped to the buffer bounds.
func Draw(buf *image.RGBA, p Patch, scale float64) {
	region := geometry.ToImageRect(geometry.ToPixels(p.Rect, scale), buf.Bounds())
	if region.Empty() || p.Marker == nil {
		return
	}
	xdraw.CatmullRom.Scale(buf, region, p.Marker, p.Marker.Bounds(), xdraw.Src, nil)
}
