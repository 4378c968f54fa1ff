package raster

import (
	"context"
	"image"
)

// Document is one opened source with renderable pages.
// Pages are addressed 1-based; standalone images expose a single page.
// Render is deterministic for identical inputs and returns a buffer
// owned by the caller: mutating it never affects later renders.
type Document interface {
	PageCount() int

	// PageSize returns the native dimensions of the given page
	// (points for PDFs, pixels for images).
	PageSize(page int) (width, height float64, err error)

	// Render rasterizes the page at the given scale. The resulting
	// buffer is nativeWidth*scale x nativeHeight*scale pixels.
	Render(ctx context.Context, page int, scale float64) (*image.RGBA, error)

	Close() error
}

// Open decodes the input and returns a renderable document. The name
// is a hint used for format sniffing only; it may be empty.
func Open(name string, data []byte) (Document, Format, error) {
	switch f := Sniff(name, data); f {
	case FormatPDF:
		doc, err := openPDF(data)
		return doc, f, err
	case FormatPNG, FormatJPEG:
		doc, err := openImage(data)
		return doc, f, err
	default:
		return nil, FormatUnknown, &UnsupportedInputError{Name: name}
	}
}
