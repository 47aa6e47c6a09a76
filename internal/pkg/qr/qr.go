// Package qr renders check-in credentials as PNG and reads them back from camera frames.
package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the side of a rendered credential, in pixels.
const DefaultSize = 256

var (
	ErrEmptyPayload = errors.New("qr payload is empty")
	ErrNoCode       = errors.New("no QR code found in image")
	ErrBadImage     = errors.New("image could not be decoded")
)

// Encode renders the opaque payload with medium error correction.
func Encode(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// Decode reads the first QR code found in img.
func Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", ErrNoCode
	}
	if result.GetText() == "" {
		return "", ErrNoCode
	}
	return result.GetText(), nil
}

// DecodeBytes decodes a PNG or JPEG frame and reads the QR code it contains.
func DecodeBytes(frame []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	return Decode(img)
}
