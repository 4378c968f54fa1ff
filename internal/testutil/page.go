// Package testutil builds synthetic test pages with real QR markers.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feanorMV/qrpatch/internal/geometry"
	"github.com/feanorMV/qrpatch/internal/qrgen"
)

// QRSpec places one QR marker on a synthetic page.
type QRSpec struct {
	Payload string
	Rect    geometry.Rect
}

// NewPage returns a white RGBA page of the given pixel size.
func NewPage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// DrawQR synthesizes the payload and pastes it over the given rect.
func DrawQR(t *testing.T, page *image.RGBA, spec QRSpec) {
	t.Helper()
	size := int(spec.Rect.W)
	qr, err := qrgen.Synthesize(spec.Payload, color.Black, color.White, size)
	require.NoError(t, err)
	region := geometry.ToImageRect(spec.Rect, page.Bounds())
	draw.Draw(page, region, qr, image.Point{}, draw.Src)
}

// QRPagePNG builds a white page with the given markers and encodes it
// as PNG bytes, ready for raster.Open.
func QRPagePNG(t *testing.T, w, h int, specs ...QRSpec) []byte {
	t.Helper()
	page := NewPage(w, h)
	for _, s := range specs {
		DrawQR(t, page, s)
	}
	return EncodePNG(t, page)
}

// EncodePNG encodes any image as PNG bytes.
func EncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
