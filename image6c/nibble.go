package image6c

import (
	"image"
	"image/color"
)

// HorizontalNibble is an image of color codes stored in horizontal nibble
// packing. Each byte contains 2 pixels: high nibble = left pixel, low
// nibble = right pixel.
type HorizontalNibble struct {
	Pix     []byte          // Pixel data (2 pixels per byte)
	Stride  int             // Bytes per row
	Rect    image.Rectangle // Image bounds
	Palette Palette         // Code table, DefaultPalette when nil
}

// NewHorizontalNibble creates a new HorizontalNibble image with the specified
// bounds. The width must be even (since 2 pixels per byte). A nil palette
// selects DefaultPalette.
func NewHorizontalNibble(r image.Rectangle, p Palette) *HorizontalNibble {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &HorizontalNibble{Rect: r, Palette: p}
	}
	if w%2 != 0 {
		panic("image6c: width must be even")
	}
	stride := w / 2
	return &HorizontalNibble{
		Pix:     make([]byte, stride*h),
		Stride:  stride,
		Rect:    r,
		Palette: p,
	}
}

func (p *HorizontalNibble) palette() Palette {
	if p.Palette == nil {
		return DefaultPalette
	}
	return p.Palette
}

// ColorModel returns the color model of the image.
func (p *HorizontalNibble) ColorModel() color.Model {
	if p.Palette == nil {
		return Model
	}
	return p.Palette.Model()
}

// Bounds returns the image bounds.
func (p *HorizontalNibble) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the palette entry of the pixel at (x, y). Codes missing from the
// palette read back as white.
func (p *HorizontalNibble) At(x, y int) color.Color {
	pal := p.palette()
	if c, ok := pal.ByCode(p.CodeAt(x, y)); ok {
		return c
	}
	return pal.white()
}

// CodeAt returns the raw code of the pixel at (x, y), 0 outside the bounds.
func (p *HorizontalNibble) CodeAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	offset, shift := p.pixOffset(x, y)
	return (p.Pix[offset] >> shift) & 0x0F
}

// Set sets the pixel at (x, y) to the nearest palette entry of c.
func (p *HorizontalNibble) Set(x, y int, c color.Color) {
	pc, ok := c.(Color)
	if !ok {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		pc = p.palette().Nearest(float32(n.R), float32(n.G), float32(n.B))
	}
	p.SetCode(x, y, pc.Code)
}

// SetCode replaces the code of the pixel at (x, y).
func (p *HorizontalNibble) SetCode(x, y int, code uint8) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, shift := p.pixOffset(x, y)
	p.Pix[offset] = (p.Pix[offset] &^ (0x0F << shift)) | ((code & 0x0F) << shift)
}

// OrCode ORs code into the nibble of the pixel at (x, y) without touching
// the neighboring nibble. On a zeroed buffer writing each pixel once this is
// the same as SetCode.
func (p *HorizontalNibble) OrCode(x, y int, code uint8) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, shift := p.pixOffset(x, y)
	p.Pix[offset] |= (code & 0x0F) << shift
}

// Fill sets every pixel to code.
func (p *HorizontalNibble) Fill(code uint8) {
	b := (code&0x0F)<<4 | code&0x0F
	for i := range p.Pix {
		p.Pix[i] = b
	}
}

// pixOffset returns the byte offset and bit shift for the pixel at (x, y).
// Even x uses the high nibble (shift 4), odd x the low nibble (shift 0).
func (p *HorizontalNibble) pixOffset(x, y int) (offset int, shift uint) {
	offset = (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)/2
	shift = uint(4 * (1 - ((x - p.Rect.Min.X) & 1)))
	return
}
