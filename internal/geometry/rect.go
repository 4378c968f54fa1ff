package geometry

import (
	"image"
	"math"
)

// Point represents a 2D coordinate in float space.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle expressed as origin plus extent.
// The coordinate space (native units, detection pixels, display pixels)
// is determined by the caller; conversion between spaces goes through
// ToNative, ToPixels and ToDisplay.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// BoundingRect returns the smallest Rect covering all given points.
// Returns a zero Rect for an empty slice.
func BoundingRect(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// ToNative converts a rectangle from pixel space at the given raster
// scale into native units.
func ToNative(r Rect, scale float64) Rect {
	return Rect{X: r.X / scale, Y: r.Y / scale, W: r.W / scale, H: r.H / scale}
}

// ToPixels converts a rectangle from native units into pixel space at
// the given raster scale. ToNative(ToPixels(r, s), s) == r for s > 0.
func ToPixels(r Rect, scale float64) Rect {
	return Rect{X: r.X * scale, Y: r.Y * scale, W: r.W * scale, H: r.H * scale}
}

// ToDisplay rescales a rectangle in rendered-pixel space to account for
// additional display scaling applied after rasterization, e.g. an image
// shown at a width different from its intrinsic width.
func ToDisplay(r Rect, shownWidth, intrinsicWidth float64) Rect {
	if intrinsicWidth == 0 {
		return r
	}
	f := shownWidth / intrinsicWidth
	return Rect{X: r.X * f, Y: r.Y * f, W: r.W * f, H: r.H * f}
}

// Pad grows the rectangle by margin on every side. Negative margins
// shrink it; extent never drops below zero.
func Pad(r Rect, margin float64) Rect {
	w := r.W + 2*margin
	h := r.H + 2*margin
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: r.X - margin, Y: r.Y - margin, W: w, H: h}
}

// Overlaps reports whether two rectangles share interior area.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// Contains reports whether inner lies fully inside outer, with tol
// slack on every edge.
func Contains(outer, inner Rect, tol float64) bool {
	return inner.X >= outer.X-tol &&
		inner.Y >= outer.Y-tol &&
		inner.X+inner.W <= outer.X+outer.W+tol &&
		inner.Y+inner.H <= outer.Y+outer.H+tol
}

// ToImageRect converts a Rect to an image.Rectangle clamped to bounds.
// The origin floors and the far corner ceils so that fractional rects
// never lose covered pixels.
func ToImageRect(r Rect, bounds image.Rectangle) image.Rectangle {
	x1 := clampInt(int(math.Floor(r.X)), bounds.Min.X, bounds.Max.X)
	y1 := clampInt(int(math.Floor(r.Y)), bounds.Min.Y, bounds.Max.Y)
	x2 := clampInt(int(math.Ceil(r.X+r.W)), bounds.Min.X, bounds.Max.X)
	y2 := clampInt(int(math.Ceil(r.Y+r.H)), bounds.Min.Y, bounds.Max.Y)
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return image.Rect(x1, y1, x2, y2)
}

// FromImageRect converts an image.Rectangle to a Rect.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

// AlmostEqual compares rectangles within the given tolerance per field.
func AlmostEqual(a, b Rect, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.W-b.W) <= tol &&
		math.Abs(a.H-b.H) <= tol
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
