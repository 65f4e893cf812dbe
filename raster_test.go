package epd13in3e

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavioheleno/epd13in3e/image6c"
)

func TestNewRGBA(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		n       int
		wantErr bool
	}{
		{"2x2", 2, 2, 16, false},
		{"empty", 0, 0, 0, false},
		{"zero width", 0, 3, 0, false},
		{"short buffer", 2, 2, 15, true},
		{"long buffer", 2, 2, 17, true},
		{"negative width", -1, 2, 0, true},
		{"negative height", 2, -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewRGBA(tt.w, tt.h, make([]byte, tt.n))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedRaster)
				assert.Nil(t, img)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, tt.w, tt.h), img.Bounds())
		})
	}
}

func TestNewRGBAShares(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	img, err := NewRGBA(2, 1, pix)
	require.NoError(t, err)

	pix[4] = 0xAA
	assert.Equal(t, color.NRGBA{0xAA, 6, 7, 8}, img.NRGBAAt(1, 0))
}

func TestNewRGBAStraightAlpha(t *testing.T) {
	tests := []struct {
		name    string
		pix     []byte
		r, g, b uint8
	}{
		{"opaque", []byte{10, 20, 30, 0xFF}, 10, 20, 30},
		{"partial alpha", []byte{200, 200, 200, 100}, 200, 200, 200},
		{"transparent", []byte{0xFF, 0, 0, 0}, 0xFF, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewRGBA(1, 1, tt.pix)
			require.NoError(t, err)

			r, g, b := image6c.RGBAt(img, 0, 0)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("RGBAt() = (%d, %d, %d), want (%d, %d, %d)", r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestNewRGBAPackIgnoresAlpha(t *testing.T) {
	// Red on top with alpha 0, black below: the top pixel is still red.
	img, err := NewRGBA(1, 2, []byte{0xFF, 0, 0, 0, 0, 0, 0, 0x40})
	require.NoError(t, err)

	buf := Pack(img, image6c.DefaultPalette)
	assert.Equal(t, byte(0x03), buf[0])
}

func TestNewRGB(t *testing.T) {
	img, err := NewRGB(2, 1, []byte{0xFF, 0, 0, 0, 0, 0xFF})
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{0xFF, 0, 0, 0xFF}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 0, 0xFF, 0xFF}, img.RGBAAt(1, 0))
}

func TestNewRGBMalformed(t *testing.T) {
	_, err := NewRGB(2, 2, make([]byte, 16))
	require.ErrorIs(t, err, ErrMalformedRaster)
	assert.Contains(t, err.Error(), "got 16 bytes for 2x2, want 12")
}
