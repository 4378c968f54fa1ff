package detect_test

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feanorMV/qrpatch/internal/detect"
	"github.com/feanorMV/qrpatch/internal/qrgen"
)

func whitePage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func TestQRDetector_FindsCode(t *testing.T) {
	page := whitePage(400, 400)
	qr, err := qrgen.Synthesize("https://example.com", color.Black, color.White, 150)
	require.NoError(t, err)
	draw.Draw(page, image.Rect(100, 100, 250, 250), qr, image.Point{}, draw.Src)

	det, err := detect.NewQRDetector().Detect(context.Background(), page)
	require.NoError(t, err)
	require.NotNil(t, det)
	assert.Equal(t, "https://example.com", det.Payload)
	require.NotEmpty(t, det.Corners)

	b := det.Bounds()
	assert.GreaterOrEqual(t, b.X, 100.0)
	assert.GreaterOrEqual(t, b.Y, 100.0)
	assert.LessOrEqual(t, b.X+b.W, 250.0)
	assert.LessOrEqual(t, b.Y+b.H, 250.0)
}

func TestQRDetector_BlankPage(t *testing.T) {
	det, err := detect.NewQRDetector().Detect(context.Background(), whitePage(200, 200))
	require.NoError(t, err)
	assert.Nil(t, det)
}

func TestQRDetector_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := detect.NewQRDetector().Detect(ctx, whitePage(50, 50))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
