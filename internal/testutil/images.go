// Package testutil builds small in-memory images for tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
)

func sample(shade uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: shade, G: uint8(x * 40), B: uint8(y * 40), A: 255})
		}
	}
	return img
}

// PNG returns a 4x4 PNG; different shades give different bytes
func PNG(t testing.TB, shade uint8) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, sample(shade)); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// JPEG returns a 4x4 JPEG
func JPEG(t testing.TB) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, sample(10), nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

// GIF returns a 4x4 GIF, which uploads reject
func GIF(t testing.TB) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.Encode(&buf, sample(20), nil); err != nil {
		t.Fatalf("gif encode: %v", err)
	}
	return buf.Bytes()
}

// PNGPayload wraps PNG bytes as an ImagePayload
func PNGPayload(t testing.TB, shade uint8) models.ImagePayload {
	t.Helper()
	return models.NewImagePayload(PNG(t, shade), "image/png")
}
