package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	// Arrange
	payload := "EMP:emp-1:7f1d5c1e-4a1b-4b8e-9c1f-0c2a3b4d5e6f"

	// Act
	pngBytes, err := Encode(payload, DefaultSize)
	require.NoError(t, err)
	decoded, err := DecodeBytes(pngBytes)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	cfg, err := png.DecodeConfig(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, cfg.Width)
}

func TestEncode_EmptyPayload(t *testing.T) {
	_, err := Encode("", DefaultSize)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestDecode_NoCode(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := range blank.Pix {
		blank.Pix[i] = 255
	}
	blank.Set(10, 10, color.Black)

	_, err := Decode(blank)
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestDecodeBytes_NotAnImage(t *testing.T) {
	_, err := DecodeBytes([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrBadImage)
}
