// Package qrgen renders QR marker images from payload text.
package qrgen

import (
	"fmt"
	"image"
	"image/color"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
)

// quietZoneModules is the margin around the symbol, in modules.
// Together with error-correction level H this is fixed policy: both are
// the floor below which re-detection of the generated marker becomes
// unreliable on scanned documents.
const quietZoneModules = 1

// EncodeError reports a failed marker synthesis, e.g. an empty payload
// or one exceeding the symbology's capacity at level H.
type EncodeError struct {
	Msg   string
	Cause error
}

func (e *EncodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("qr encode: %s: %v", e.Msg, e.Cause)
	}
	return fmt.Sprintf("qr encode: %s", e.Msg)
}

func (e *EncodeError) Unwrap() error { return e.Cause }

// Synthesize renders payload as a QR symbol of sizePx x sizePx pixels
// with the given foreground and background colors.
func Synthesize(payload string, fg, bg color.Color, sizePx int) (*image.RGBA, error) {
	if payload == "" {
		return nil, &EncodeError{Msg: "empty payload"}
	}
	if sizePx <= 0 {
		return nil, &EncodeError{Msg: fmt.Sprintf("invalid size %d", sizePx)}
	}

	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_ERROR_CORRECTION: decoder.ErrorCorrectionLevel_H,
		gozxing.EncodeHintType_MARGIN:           quietZoneModules,
		gozxing.EncodeHintType_CHARACTER_SET:    "UTF-8",
	}

	writer := qrcode.NewQRCodeWriter()
	bm, err := writer.Encode(payload, gozxing.BarcodeFormat_QR_CODE, sizePx, sizePx, hints)
	if err != nil {
		return nil, &EncodeError{Msg: "payload not encodable at level H", Cause: err}
	}

	return matrixToImage(bm, fg, bg), nil
}

// matrixToImage converts a bit matrix into an RGBA image using the
// given module colors.
func matrixToImage(bm *gozxing.BitMatrix, fg, bg color.Color) *image.RGBA {
	w, h := bm.GetWidth(), bm.GetHeight()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fgc := color.RGBAModel.Convert(fg).(color.RGBA)
	bgc := color.RGBAModel.Convert(bg).(color.RGBA)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if bm.Get(x, y) {
				img.SetRGBA(x, y, fgc)
			} else {
				img.SetRGBA(x, y, bgc)
			}
		}
	}
	return img
}
