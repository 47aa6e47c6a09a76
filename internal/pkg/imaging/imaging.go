// Package imaging normalizes uploaded logos before they are forwarded to the backend.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxLogoSide bounds the longest side of a stored logo, in pixels.
const MaxLogoSide = 256

var ErrUnsupportedFormat = errors.New("image must be PNG or JPEG")

// Downscale decodes a PNG or JPEG, shrinks it so neither side exceeds maxSide and
// re-encodes it in its original format. Images already small enough are returned untouched.
func Downscale(content []byte, maxSide int) ([]byte, string, error) {
	contentType := http.DetectContentType(content)
	if contentType != "image/png" && contentType != "image/jpeg" {
		return nil, "", ErrUnsupportedFormat
	}

	var (
		img image.Image
		err error
	)
	if contentType == "image/png" {
		img, err = png.Decode(bytes.NewReader(content))
	} else {
		img, err = jpeg.Decode(bytes.NewReader(content))
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode logo: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxSide && height <= maxSide {
		return content, contentType, nil
	}

	targetW, targetH := fit(width, height, maxSide)
	resized := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var out bytes.Buffer
	if contentType == "image/png" {
		err = png.Encode(&out, resized)
	} else {
		err = jpeg.Encode(&out, resized, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode logo: %w", err)
	}
	return out.Bytes(), contentType, nil
}

// fit keeps the aspect ratio while bringing the longest side down to maxSide.
func fit(width, height, maxSide int) (int, int) {
	if width >= height {
		h := height * maxSide / width
		if h < 1 {
			h = 1
		}
		return maxSide, h
	}
	w := width * maxSide / height
	if w < 1 {
		w = 1
	}
	return w, maxSide
}
