package detect

import (
	"context"
	"fmt"
	"image"

	"github.com/feanorMV/qrpatch/internal/geometry"
)

// Detection is a single decoded marker.
type Detection struct {
	// Payload is the decoded text content.
	Payload string

	// Corners are the key points reported by the decoder, in pixel
	// coordinates of the scanned image. For QR codes these are the
	// finder/alignment pattern centers, which may be rotation-skewed;
	// derive axis-aligned geometry via Bounds, never from corner
	// differences directly.
	Corners []geometry.Point
}

// Bounds returns the axis-aligned bounding box over the corner points.
func (d *Detection) Bounds() geometry.Rect {
	return geometry.BoundingRect(d.Corners)
}

// Detector locates at most one marker per invocation.
// The result is three-way: (det, nil) on a find, (nil, nil) when the
// image contains no detectable marker, and (nil, err) when the decoder
// failed for any other reason.
type Detector interface {
	Detect(ctx context.Context, img image.Image) (*Detection, error)
}

// MultiDetector is an optional capability: detectors able to return all
// markers in one pass implement it, letting callers skip the
// suppress-and-retry loop.
type MultiDetector interface {
	DetectAll(ctx context.Context, img image.Image) ([]Detection, error)
}

// Error reports a decoder failure other than "not found".
type Error struct {
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("detection failed: %s: %v", e.Msg, e.Cause)
	}
	return fmt.Sprintf("detection failed: %s", e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }
