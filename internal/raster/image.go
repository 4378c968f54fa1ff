package raster

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/disintegration/imaging"
)

// imageDocument presents a standalone raster image as a one-page
// document whose native units are its intrinsic pixels.
type imageDocument struct {
	src image.Image
}

func openImage(data []byte) (Document, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &RenderError{Page: 1, Msg: "decoding image", Cause: err}
	}
	return &imageDocument{src: img}, nil
}

func (d *imageDocument) PageCount() int { return 1 }

func (d *imageDocument) PageSize(page int) (float64, float64, error) {
	if page != 1 {
		return 0, 0, &RenderError{Page: page, Msg: "page out of range"}
	}
	b := d.src.Bounds()
	return float64(b.Dx()), float64(b.Dy()), nil
}

func (d *imageDocument) Render(ctx context.Context, page int, scale float64) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page != 1 {
		return nil, &RenderError{Page: page, Msg: "page out of range"}
	}
	if scale <= 0 {
		return nil, &RenderError{Page: page, Msg: "scale must be positive"}
	}

	b := d.src.Bounds()
	w := int(math.Round(float64(b.Dx()) * scale))
	h := int(math.Round(float64(b.Dy()) * scale))

	var scaled image.Image = d.src
	if w != b.Dx() || h != b.Dy() {
		scaled = imaging.Resize(d.src, w, h, imaging.Lanczos)
	}

	// Copy into a fresh RGBA buffer so callers may mutate freely.
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	return out, nil
}

func (d *imageDocument) Close() error { return nil }
