package raster

import (
	"bytes"
	"context"
	"image"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// pdfDocument reads page structure via pdfcpu; the actual page raster
// is produced by the renderPDFPage backend selected at build time.
type pdfDocument struct {
	data []byte
	dims []types.Dim
	conf *model.Configuration
}

func openPDF(data []byte) (Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(bytes.NewReader(data), conf)
	if err != nil {
		return nil, &RenderError{Msg: "reading pdf page dimensions", Cause: err}
	}
	if len(dims) == 0 {
		return nil, &RenderError{Msg: "pdf has no pages"}
	}
	return &pdfDocument{data: data, dims: dims, conf: conf}, nil
}

func (d *pdfDocument) PageCount() int { return len(d.dims) }

func (d *pdfDocument) PageSize(page int) (float64, float64, error) {
	if page < 1 || page > len(d.dims) {
		return 0, 0, &RenderError{Page: page, Msg: "page out of range"}
	}
	dim := d.dims[page-1]
	return dim.Width, dim.Height, nil
}

func (d *pdfDocument) Render(ctx context.Context, page int, scale float64) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 || page > len(d.dims) {
		return nil, &RenderError{Page: page, Msg: "page out of range"}
	}
	if scale <= 0 {
		return nil, &RenderError{Page: page, Msg: "scale must be positive"}
	}
	return renderPDFPage(d.data, page, scale)
}

func (d *pdfDocument) Close() error { return nil }
