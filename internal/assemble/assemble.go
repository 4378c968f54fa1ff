// Package assemble encodes composited pages into an output document or
// image.
package assemble

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/feanorMV/qrpatch/internal/raster"
)

// jpegQuality keeps image-path output close to typical source quality.
const jpegQuality = 95

// Error reports a failed document assembly.
type Error struct {
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("assemble: %s: %v", e.Msg, e.Cause)
	}
	return fmt.Sprintf("assemble: %s", e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Page is one composited page plus its native dimensions, which the
// PDF path preserves exactly (orientation follows from width vs
// height).
type Page struct {
	Image        *image.RGBA
	NativeWidth  float64
	NativeHeight float64
}

// Output assembles pages into the given format. PDF output accepts any
// page count; PNG and JPEG require exactly one page.
func Output(format raster.Format, pages []Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, &Error{Msg: "no pages"}
	}
	switch format {
	case raster.FormatPDF:
		return assemblePDF(pages)
	case raster.FormatPNG:
		if len(pages) != 1 {
			return nil, &Error{Msg: fmt.Sprintf("png output needs exactly one page, got %d", len(pages))}
		}
		return encodeImage(pages[0].Image, imaging.PNG)
	case raster.FormatJPEG:
		if len(pages) != 1 {
			return nil, &Error{Msg: fmt.Sprintf("jpeg output needs exactly one page, got %d", len(pages))}
		}
		return encodeImage(pages[0].Image, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	default:
		return nil, &Error{Msg: fmt.Sprintf("unsupported output format %s", format)}
	}
}

func encodeImage(img *image.RGBA, f imaging.Format, opts ...imaging.EncodeOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f, opts...); err != nil {
		return nil, &Error{Msg: "encoding image", Cause: err}
	}
	return buf.Bytes(), nil
}

// assemblePDF builds one single-page PDF per composited page, each with
// the page's original native dimensions, then merges them in order.
func assemblePDF(pages []Page) ([]byte, error) {
	conf := model.NewDefaultConfiguration()

	singles := make([]io.ReadSeeker, 0, len(pages))
	for i, p := range pages {
		pageBuf, err := importedPage(p, conf)
		if err != nil {
			return nil, &Error{Msg: fmt.Sprintf("building page %d", i+1), Cause: err}
		}
		singles = append(singles, bytes.NewReader(pageBuf))
	}

	if len(singles) == 1 {
		out, err := io.ReadAll(singles[0])
		if err != nil {
			return nil, &Error{Msg: "reading page", Cause: err}
		}
		return out, nil
	}

	var merged bytes.Buffer
	if err := api.MergeRaw(singles, &merged, false, conf); err != nil {
		return nil, &Error{Msg: "merging pages", Cause: err}
	}
	return merged.Bytes(), nil
}

// importedPage wraps one composited raster into a single-page PDF whose
// media box matches the native page size.
func importedPage(p Page, conf *model.Configuration) ([]byte, error) {
	if p.NativeWidth <= 0 || p.NativeHeight <= 0 {
		return nil, fmt.Errorf("invalid native page size %gx%g", p.NativeWidth, p.NativeHeight)
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, p.Image); err != nil {
		return nil, fmt.Errorf("encoding page raster: %w", err)
	}

	imp := pdfcpu.DefaultImportConfig()
	imp.PageDim = &types.Dim{Width: p.NativeWidth, Height: p.NativeHeight}
	imp.PageSize = ""
	imp.Pos = types.Full
	imp.Scale = 1.0
	imp.ScaleAbs = false

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, []io.Reader{&pngBuf}, imp, conf); err != nil {
		return nil, fmt.Errorf("importing page raster: %w", err)
	}
	return out.Bytes(), nil
}
