// Package scan finds all markers in a pixel buffer by repeatedly
// invoking a single-result detector and suppressing each found region.
package scan

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/feanorMV/qrpatch/internal/detect"
	"github.com/feanorMV/qrpatch/internal/geometry"
)

// DefaultPadding is the margin, in pixels at detection scale, added
// around a found region before suppression. Detector corner points can
// fall slightly inside the symbol's quiet zone; without the margin the
// next pass may re-find the same marker. The value is empirical, which
// is why it stays configurable rather than derived from module size.
const DefaultPadding = 10

// Options controls the scan loop.
type Options struct {
	// Padding is the suppression margin in pixels. Zero means
	// DefaultPadding; use a negative value for no padding.
	Padding int
}

func (o Options) padding() int {
	switch {
	case o.Padding == 0:
		return DefaultPadding
	case o.Padding < 0:
		return 0
	default:
		return o.Padding
	}
}

// Found is one marker located during a scan.
type Found struct {
	// Payload is the decoded marker content.
	Payload string

	// Bounds is the axis-aligned bounding box in pixel coordinates of
	// the scanned buffer, computed over the detector's corner points.
	Bounds geometry.Rect

	// Corners are the raw detector points.
	Corners []geometry.Point

	// Preview is a copy of the buffer region under Bounds, taken
	// before suppression.
	Preview *image.RGBA
}

// Page scans buf until the detector reports no further marker,
// suppressing each found region with white so single-result detectors
// can locate the next one. The buffer is consumed: it is mutated and
// the scan is not restartable.
//
// On a detector failure other than "not found" the markers found so
// far are returned together with the error, so callers can surface a
// partially scanned page instead of dropping it.
//
// Detectors implementing detect.MultiDetector short-circuit the loop:
// all results come from one pass and the buffer is left untouched.
func Page(ctx context.Context, det detect.Detector, buf *image.RGBA, opts Options) ([]Found, error) {
	if md, ok := det.(detect.MultiDetector); ok {
		return multiPass(ctx, md, buf)
	}

	var found []Found
	for {
		d, err := det.Detect(ctx, buf)
		if err != nil {
			return found, err
		}
		if d == nil {
			return found, nil
		}

		bounds := d.Bounds()
		region := geometry.ToImageRect(bounds, buf.Bounds())
		if region.Empty() {
			// Cannot suppress a zero-area find; bail out rather than
			// loop forever on the same detection.
			return found, &detect.Error{Msg: fmt.Sprintf("degenerate detection at %+v", bounds)}
		}

		found = append(found, Found{
			Payload: d.Payload,
			Bounds:  bounds,
			Corners: d.Corners,
			Preview: cropCopy(buf, region),
		})

		suppress(buf, geometry.ToImageRect(geometry.Pad(bounds, float64(opts.padding())), buf.Bounds()))
	}
}

func multiPass(ctx context.Context, det detect.MultiDetector, buf *image.RGBA) ([]Found, error) {
	ds, err := det.DetectAll(ctx, buf)
	if err != nil {
		return nil, err
	}
	found := make([]Found, 0, len(ds))
	for i := range ds {
		bounds := ds[i].Bounds()
		region := geometry.ToImageRect(bounds, buf.Bounds())
		if region.Empty() {
			continue
		}
		found = append(found, Found{
			Payload: ds[i].Payload,
			Bounds:  bounds,
			Corners: ds[i].Corners,
			Preview: cropCopy(buf, region),
		})
	}
	return found, nil
}

// cropCopy extracts the region into a fresh buffer anchored at (0,0).
func cropCopy(buf *image.RGBA, region image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(out, out.Bounds(), buf, region.Min, draw.Src)
	return out
}

// suppress overwrites the region with background white.
func suppress(buf *image.RGBA, region image.Rectangle) {
	draw.Draw(buf, region, image.NewUniform(color.White), image.Point{}, draw.Src)
}
