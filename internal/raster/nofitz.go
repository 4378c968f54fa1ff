//go:build !pdf_render_fitz

package raster

import "image"

// renderPDFPage is unavailable in the default build. PDF structure
// (page count, dimensions, output assembly) still works; only page
// rasterization needs the MuPDF backend.
func renderPDFPage(_ []byte, page int, _ float64) (*image.RGBA, error) {
	return nil, &RenderError{
		Page: page,
		Msg:  "pdf rendering not compiled in; rebuild with -tags pdf_render_fitz",
	}
}
