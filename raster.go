package epd13in3e

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrMalformedRaster is returned when a pixel buffer does not match its
	// declared dimensions.
	ErrMalformedRaster = errors.New("epd13in3e: pixel buffer does not match dimensions")
	// ErrBufferSize is returned when a packed frame is not BufferSize bytes.
	ErrBufferSize = errors.New("epd13in3e: invalid buffer size")
)

// NewRGBA wraps a w x h row-major RGBA buffer, 4 bytes per pixel, without
// copying it. The bytes are straight (not premultiplied) RGBA, so the image
// is an *image.NRGBA and the pipeline reads the color channels as they are.
// The buffer is checked against the dimensions here so that the pipeline
// itself never has to.
func NewRGBA(w, h int, pix []byte) (*image.NRGBA, error) {
	if err := checkRaster(w, h, 4, len(pix)); err != nil {
		return nil, err
	}
	return &image.NRGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}, nil
}

// NewRGB copies a w x h row-major RGB buffer, 3 bytes per pixel, into an
// opaque RGBA image.
func NewRGB(w, h int, pix []byte) (*image.RGBA, error) {
	if err := checkRaster(w, h, 3, len(pix)); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, j := 0, 0; i < len(pix); i, j = i+3, j+4 {
		d := img.Pix[j : j+4 : j+4]
		d[0], d[1], d[2], d[3] = pix[i], pix[i+1], pix[i+2], 0xFF
	}
	return img, nil
}

func checkRaster(w, h, channels, n int) error {
	if w < 0 || h < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrMalformedRaster, w, h)
	}
	if want := w * h * channels; n != want {
		return fmt.Errorf("%w: got %d bytes for %dx%d, want %d", ErrMalformedRaster, n, w, h, want)
	}
	return nil
}
