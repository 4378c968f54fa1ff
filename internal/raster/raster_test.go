package raster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSniff_ByContent(t *testing.T) {
	assert.Equal(t, FormatPDF, Sniff("x.bin", []byte("%PDF-1.7\n...")))
	assert.Equal(t, FormatPNG, Sniff("x.bin", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0}))
	assert.Equal(t, FormatJPEG, Sniff("x.bin", []byte{0xFF, 0xD8, 0xFF, 0xE0}))
}

func TestSniff_ContentBeatsExtension(t *testing.T) {
	// A PNG mislabeled as .pdf is still a PNG.
	assert.Equal(t, FormatPNG, Sniff("doc.pdf", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}))
}

func TestSniff_ExtensionFallback(t *testing.T) {
	assert.Equal(t, FormatPDF, Sniff("doc.pdf", nil))
	assert.Equal(t, FormatJPEG, Sniff("photo.JPG", nil))
	assert.Equal(t, FormatUnknown, Sniff("notes.txt", []byte("hello")))
}

func TestOpen_UnsupportedInput(t *testing.T) {
	_, _, err := Open("notes.txt", []byte("plain text"))
	var uie *UnsupportedInputError
	require.ErrorAs(t, err, &uie)
}

func TestImageDocument_RenderAtScale(t *testing.T) {
	data := encodePNG(t, solidImage(200, 100, color.RGBA{R: 10, G: 20, B: 30, A: 255}))

	doc, format, err := Open("page.png", data)
	require.NoError(t, err)
	defer func() { _ = doc.Close() }()

	assert.Equal(t, FormatPNG, format)
	assert.Equal(t, 1, doc.PageCount())

	w, h, err := doc.PageSize(1)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, w, 1e-9)
	assert.InDelta(t, 100.0, h, 1e-9)

	buf, err := doc.Render(context.Background(), 1, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 400, buf.Bounds().Dx())
	assert.Equal(t, 200, buf.Bounds().Dy())
}

func TestImageDocument_RenderCopiesBuffer(t *testing.T) {
	data := encodePNG(t, solidImage(50, 50, color.RGBA{R: 1, G: 2, B: 3, A: 255}))
	doc, _, err := Open("page.png", data)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := doc.Render(ctx, 1, 1.0)
	require.NoError(t, err)

	// Mutate the first render; a second render must be unaffected.
	for i := range first.Pix {
		first.Pix[i] = 0xFF
	}
	second, err := doc.Render(ctx, 1, 1.0)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, second.RGBAAt(10, 10))
}

func TestImageDocument_PageOutOfRange(t *testing.T) {
	data := encodePNG(t, solidImage(10, 10, color.RGBA{A: 255}))
	doc, _, err := Open("page.png", data)
	require.NoError(t, err)

	_, err = doc.Render(context.Background(), 2, 1.0)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 2, re.Page)

	_, _, err = doc.PageSize(0)
	require.ErrorAs(t, err, &re)
}

func TestImageDocument_InvalidScale(t *testing.T) {
	data := encodePNG(t, solidImage(10, 10, color.RGBA{A: 255}))
	doc, _, err := Open("page.png", data)
	require.NoError(t, err)

	_, err = doc.Render(context.Background(), 1, 0)
	var re *RenderError
	require.ErrorAs(t, err, &re)
}

func TestOpen_CorruptImage(t *testing.T) {
	// Valid PNG signature, garbage body.
	data := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, []byte("garbage")...)
	_, _, err := Open("bad.png", data)
	var re *RenderError
	require.ErrorAs(t, err, &re)
}
