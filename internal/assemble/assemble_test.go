package assemble

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feanorMV/qrpatch/internal/raster"
)

func testPage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
		}
	}
	return img
}

func TestOutput_PNGSinglePage(t *testing.T) {
	data, err := Output(raster.FormatPNG, []Page{
		{Image: testPage(120, 80), NativeWidth: 120, NativeHeight: 80},
	})
	require.NoError(t, err)

	// Output must re-open as an image with the same dimensions.
	doc, format, err := raster.Open("out.png", data)
	require.NoError(t, err)
	assert.Equal(t, raster.FormatPNG, format)
	w, h, err := doc.PageSize(1)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, w, 1e-9)
	assert.InDelta(t, 80.0, h, 1e-9)
}

func TestOutput_JPEGSinglePage(t *testing.T) {
	data, err := Output(raster.FormatJPEG, []Page{
		{Image: testPage(60, 40), NativeWidth: 60, NativeHeight: 40},
	})
	require.NoError(t, err)
	assert.Equal(t, raster.FormatJPEG, raster.Sniff("", data))
}

func TestOutput_ImageRejectsMultiplePages(t *testing.T) {
	pages := []Page{
		{Image: testPage(10, 10), NativeWidth: 10, NativeHeight: 10},
		{Image: testPage(10, 10), NativeWidth: 10, NativeHeight: 10},
	}
	_, err := Output(raster.FormatPNG, pages)
	var ae *Error
	require.ErrorAs(t, err, &ae)
}

func TestOutput_EmptyPages(t *testing.T) {
	_, err := Output(raster.FormatPDF, nil)
	var ae *Error
	require.ErrorAs(t, err, &ae)
}

func TestOutput_PDFPreservesPageDims(t *testing.T) {
	// Two pages with distinct sizes and orientations.
	pages := []Page{
		{Image: testPage(600, 800), NativeWidth: 600, NativeHeight: 800},
		{Image: testPage(800, 600), NativeWidth: 800, NativeHeight: 600},
	}
	data, err := Output(raster.FormatPDF, pages)
	require.NoError(t, err)
	assert.Equal(t, raster.FormatPDF, raster.Sniff("", data))

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	dims, err := api.PageDims(bytes.NewReader(data), conf)
	require.NoError(t, err)
	require.Len(t, dims, 2)
	assert.InDelta(t, 600.0, dims[0].Width, 0.5)
	assert.InDelta(t, 800.0, dims[0].Height, 0.5)
	assert.InDelta(t, 800.0, dims[1].Width, 0.5)
	assert.InDelta(t, 600.0, dims[1].Height, 0.5)
}

func TestOutput_PDFSinglePage(t *testing.T) {
	data, err := Output(raster.FormatPDF, []Page{
		{Image: testPage(595, 842), NativeWidth: 595, NativeHeight: 842},
	})
	require.NoError(t, err)

	conf := model.NewDefaultConfiguration()
	count, err := api.PageCount(bytes.NewReader(data), conf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOutput_InvalidNativeSize(t *testing.T) {
	_, err := Output(raster.FormatPDF, []Page{
		{Image: testPage(10, 10), NativeWidth: 0, NativeHeight: 10},
	})
	var ae *Error
	require.ErrorAs(t, err, &ae)
}
