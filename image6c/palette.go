package image6c

import (
	"image"
	"image/color"
	"math"
)

// Controller color codes.
const (
	CodeBlack  uint8 = 0
	CodeWhite  uint8 = 1
	CodeYellow uint8 = 2
	CodeRed    uint8 = 3
	CodeBlue   uint8 = 5
	CodeGreen  uint8 = 6
)

// Color is a palette entry: the RGB the panel shows and the 4-bit code the
// controller expects for it.
type Color struct {
	R, G, B uint8
	Code    uint8
}

// RGBA implements color.Color. Entries are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xFFFF
}

// The six inks of the panel.
var (
	Black  = Color{R: 0x00, G: 0x00, B: 0x00, Code: CodeBlack}
	White  = Color{R: 0xFF, G: 0xFF, B: 0xFF, Code: CodeWhite}
	Yellow = Color{R: 0xFF, G: 0xFF, B: 0x00, Code: CodeYellow}
	Red    = Color{R: 0xFF, G: 0x00, B: 0x00, Code: CodeRed}
	Blue   = Color{R: 0x00, G: 0x00, B: 0xFF, Code: CodeBlue}
	Green  = Color{R: 0x00, G: 0xFF, B: 0x00, Code: CodeGreen}
)

// Palette is an ordered list of entries. Order matters: Nearest breaks ties
// in favor of the earlier entry.
type Palette []Color

// DefaultPalette is the panel's palette in declaration order.
var DefaultPalette = Palette{Black, White, Yellow, Red, Blue, Green}

// Model converts colors to the nearest DefaultPalette entry.
var Model = DefaultPalette.Model()

// Nearest returns the entry with the smallest squared RGB distance to
// (r, g, b). The input is not clamped; callers that accumulate error are
// expected to clamp before calling. The first minimum wins.
func (p Palette) Nearest(r, g, b float32) Color {
	if len(p) == 0 {
		return Color{}
	}
	minDist := float32(math.MaxFloat32)
	closest := p[0]
	for _, c := range p {
		dr := r - float32(c.R)
		dg := g - float32(c.G)
		db := b - float32(c.B)
		if dist := dr*dr + dg*dg + db*db; dist < minDist {
			minDist = dist
			closest = c
		}
	}
	return closest
}

// CodeRGB returns the code of the entry matching (r, g, b) exactly. Colors
// outside the palette get the white code.
func (p Palette) CodeRGB(r, g, b uint8) uint8 {
	for _, c := range p {
		if c.R == r && c.G == g && c.B == b {
			return c.Code
		}
	}
	return p.white().Code
}

// Code is CodeRGB for an arbitrary color, compared after un-premultiplying
// to 8-bit straight RGB.
func (p Palette) Code(c color.Color) uint8 {
	if pc, ok := c.(Color); ok {
		return p.CodeRGB(pc.R, pc.G, pc.B)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return p.CodeRGB(n.R, n.G, n.B)
}

// ByCode returns the entry using code.
func (p Palette) ByCode(code uint8) (Color, bool) {
	for _, c := range p {
		if c.Code == code {
			return c, true
		}
	}
	return Color{}, false
}

// white returns the palette's white entry, or White if it has none.
func (p Palette) white() Color {
	for _, c := range p {
		if c.R == 0xFF && c.G == 0xFF && c.B == 0xFF {
			return c
		}
	}
	return White
}

// Model returns a color model converting to the nearest entry of p.
func (p Palette) Model() color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		if pc, ok := c.(Color); ok {
			return pc
		}
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		return p.Nearest(float32(n.R), float32(n.G), float32(n.B))
	})
}

// Colors returns p as a color.Palette, in the same order, for use with
// image.Paletted and the standard encoders.
func (p Palette) Colors() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}

// RGBAt returns the straight (un-premultiplied) RGB of the pixel at (x, y),
// discarding alpha. *image.RGBA and *image.NRGBA are read directly.
func RGBAt(img image.Image, x, y int) (r, g, b uint8) {
	switch src := img.(type) {
	case *image.NRGBA:
		i := src.PixOffset(x, y)
		s := src.Pix[i : i+3 : i+3]
		return s[0], s[1], s[2]
	case *image.RGBA:
		i := src.PixOffset(x, y)
		// Small cap improves performance, see https://golang.org/issue/27857
		s := src.Pix[i : i+4 : i+4]
		switch s[3] {
		case 0xff:
			return s[0], s[1], s[2]
		case 0:
			return 0, 0, 0
		default:
			a := uint32(s[3])
			return unpremul(s[0], a), unpremul(s[1], a), unpremul(s[2], a)
		}
	}
	n := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return n.R, n.G, n.B
}

// unpremul divides a premultiplied channel by alpha a (1..0xfe). Malformed
// pixels whose channel exceeds alpha saturate at 0xff.
func unpremul(v uint8, a uint32) uint8 {
	if n := uint32(v) * 0xff / a; n < 0xff {
		return uint8(n)
	}
	return 0xff
}
