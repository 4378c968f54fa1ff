//go:build pdf_render_fitz

package raster

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

// renderPDFPage rasterizes one PDF page via MuPDF. Page geometry is in
// points, so a scale multiplier of s corresponds to 72*s DPI.
func renderPDFPage(data []byte, page int, scale float64) (*image.RGBA, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, &RenderError{Page: page, Msg: "opening pdf", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	img, err := doc.ImageDPI(page-1, 72*scale)
	if err != nil {
		return nil, &RenderError{Page: page, Msg: "rasterizing pdf page", Cause: err}
	}
	return img, nil
}
