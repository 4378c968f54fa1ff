package detect

import (
	"context"
	"errors"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/feanorMV/qrpatch/internal/geometry"
)

// QRDetector decodes QR codes via gozxing. It is a single-result
// detector: on images with several codes it reports whichever one the
// decoder's internal heuristic locates first, deterministically for a
// fixed input image.
type QRDetector struct {
	// TryHarder enables the decoder's exhaustive search mode.
	TryHarder bool
}

// NewQRDetector returns a QR detector with exhaustive search enabled.
func NewQRDetector() *QRDetector {
	return &QRDetector{TryHarder: true}
}

// Detect implements Detector. A clean "no QR code present" decode
// result yields (nil, nil); format and checksum failures are real
// errors.
func (d *QRDetector) Detect(ctx context.Context, img image.Image) (*Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, &Error{Msg: "binarizing image", Cause: err}
	}

	hints := map[gozxing.DecodeHintType]interface{}{}
	if d.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	reader := qrcode.NewQRCodeReader()
	res, err := reader.Decode(bmp, hints)
	if err != nil {
		var nfe gozxing.NotFoundException
		if errors.As(err, &nfe) {
			return nil, nil
		}
		return nil, &Error{Msg: "decoding qr code", Cause: err}
	}

	pts := res.GetResultPoints()
	corners := make([]geometry.Point, 0, len(pts))
	for _, p := range pts {
		corners = append(corners, geometry.Point{X: p.GetX(), Y: p.GetY()})
	}
	return &Detection{Payload: res.GetText(), Corners: corners}, nil
}
