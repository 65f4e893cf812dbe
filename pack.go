package epd13in3e

import (
	"fmt"
	"image"

	"github.com/flavioheleno/epd13in3e/image6c"
)

// Panel geometry. The panel is portrait; content is authored landscape
// (Height x Width) and rotated 90° clockwise when packed.
const (
	Width      = 1200 // Panel width in pixels
	Height     = 1600 // Panel height in pixels
	StripWidth = Width / 2

	// BufferSize is the length of a packed frame: 4 bits per pixel.
	BufferSize = Width * Height / 2
	// StripSize is the length of each controller's half of a frame.
	StripSize = BufferSize / 2
)

// Rotate maps a panel pixel (xNew, yNew) to the landscape source pixel shown
// there, for a source srcH pixels high. yOld saturates at 0, so panel columns
// beyond the source height repeat the source's first row.
func Rotate(xNew, yNew, srcH int) (xOld, yOld int) {
	xOld = yNew
	yOld = srcH - 1 - xNew
	if yOld < 0 {
		yOld = 0
	}
	return
}

// Locate returns the byte offset in a packed frame holding panel pixel
// (xNew, yNew), and whether the pixel uses the high nibble. Columns below
// StripWidth belong to the first strip, the rest to the second strip which
// starts at StripSize.
func Locate(xNew, yNew int) (offset int, high bool) {
	base := 0
	if xNew >= StripWidth {
		xNew -= StripWidth
		base = StripSize
	}
	pixel := xNew + yNew*StripWidth
	return base + pixel/2, pixel&1 == 0
}

// Strips returns the two 600x1600 strip images backed by buf, which must be
// BufferSize bytes long. Writes to the strips land directly in buf.
func Strips(buf []byte, p image6c.Palette) [2]*image6c.HorizontalNibble {
	var s [2]*image6c.HorizontalNibble
	for i := range s {
		s[i] = &image6c.HorizontalNibble{
			Pix:     buf[i*StripSize : (i+1)*StripSize : (i+1)*StripSize],
			Stride:  StripWidth / 2,
			Rect:    image.Rect(0, 0, StripWidth, Height),
			Palette: p,
		}
	}
	return s
}

// Pack rotates src onto the panel and packs it two pixels per byte using the
// codes of p. The result is always BufferSize bytes. Codes are only ever
// ORed into the zeroed frame, so panel pixels that do not map into src are
// left as code 0, which the panel shows as black.
//
// src is expected to hold palette colors only (see the dither package);
// any other color is packed as white.
func Pack(src image.Image, p image6c.Palette) []byte {
	buf := make([]byte, BufferSize)
	strips := Strips(buf, p)
	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()

	for yNew := 0; yNew < Height; yNew++ {
		for xNew := 0; xNew < Width; xNew++ {
			xOld, yOld := Rotate(xNew, yNew, srcH)
			if xOld >= srcW || yOld >= srcH {
				continue
			}
			r, g, bl := image6c.RGBAt(src, b.Min.X+xOld, b.Min.Y+yOld)
			s, x := stripAt(strips, xNew)
			s.OrCode(x, yNew, p.CodeRGB(r, g, bl))
		}
	}
	return buf
}

// stripAt returns the strip holding panel column xNew and the column within
// it.
func stripAt(strips [2]*image6c.HorizontalNibble, xNew int) (*image6c.HorizontalNibble, int) {
	if xNew >= StripWidth {
		return strips[1], xNew - StripWidth
	}
	return strips[0], xNew
}

// Preview renders a packed frame the way the panel shows it: a Width x Height
// portrait image. Codes missing from p render white.
func Preview(buf []byte, p image6c.Palette) (*image.RGBA, error) {
	if len(buf) != BufferSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBufferSize, len(buf), BufferSize)
	}
	dst := image.NewRGBA(image.Rect(0, 0, Width, Height))
	strips := Strips(buf, p)
	for yNew := 0; yNew < Height; yNew++ {
		for xNew := 0; xNew < Width; xNew++ {
			s, x := stripAt(strips, xNew)
			dst.Set(xNew, yNew, s.At(x, yNew))
		}
	}
	return dst, nil
}
