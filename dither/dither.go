// Package dither reduces full color rasters to a panel palette with
// Floyd-Steinberg error diffusion.
//
// The scan is serial: every pixel is quantized against error already diffused
// from its predecessors, so a single raster cannot be split across
// goroutines. Independent rasters can be dithered concurrently.
package dither

import (
	"image"

	"github.com/flavioheleno/epd13in3e/image6c"
)

// Floyd-Steinberg weights.
const (
	weightRight      = 7.0 / 16.0
	weightBelowLeft  = 3.0 / 16.0
	weightBelow      = 5.0 / 16.0
	weightBelowRight = 1.0 / 16.0
)

// FloydSteinberg returns a copy of src, with the same bounds, in which every
// pixel is an exact entry of p. Alpha is ignored on input and fully opaque on
// output; src is expected to be composited against an opaque background.
func FloydSteinberg(src image.Image, p image6c.Palette) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	data := load(src)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			px := data[i : i+3 : i+3]

			// Both the quantization and the error use the clamped value.
			oldR, oldG, oldB := clamp(px[0]), clamp(px[1]), clamp(px[2])

			c := p.Nearest(oldR, oldG, oldB)
			px[0], px[1], px[2] = float32(c.R), float32(c.G), float32(c.B)

			errR := oldR - float32(c.R)
			errG := oldG - float32(c.G)
			errB := oldB - float32(c.B)

			if x+1 < w {
				spread(data, i+3, errR, errG, errB, weightRight)
			}
			if y+1 < h {
				below := i + w*3
				if x > 0 {
					spread(data, below-3, errR, errG, errB, weightBelowLeft)
				}
				spread(data, below, errR, errG, errB, weightBelow)
				if x+1 < w {
					spread(data, below+3, errR, errG, errB, weightBelowRight)
				}
			}
		}
	}

	return store(data, b)
}

// load copies src into a row-major float32 RGB working buffer.
func load(src image.Image) []float32 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]float32, w*h*3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl := image6c.RGBAt(src, x, y)
			data[i], data[i+1], data[i+2] = float32(r), float32(g), float32(bl)
			i += 3
		}
	}
	return data
}

// store converts the working buffer back to 8-bit opaque pixels.
func store(data []float32, b image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(b)
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			s := data[(y*w+x)*3:]
			d := row[x*4 : x*4+4 : x*4+4]
			d[0] = uint8(clamp(s[0]))
			d[1] = uint8(clamp(s[1]))
			d[2] = uint8(clamp(s[2]))
			d[3] = 0xFF
		}
	}
	return dst
}

func spread(data []float32, i int, r, g, b, weight float32) {
	data[i] += r * weight
	data[i+1] += g * weight
	data[i+2] += b * weight
}

func clamp(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Paletted is FloydSteinberg with the result indexed by p, which keeps PNG
// encodings of dithered frames small.
func Paletted(src image.Image, p image6c.Palette) *image.Paletted {
	rgba := FloydSteinberg(src, p)
	dst := image.NewPaletted(rgba.Bounds(), p.Colors())
	b := rgba.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s := rgba.Pix[rgba.PixOffset(x, y):]
			idx := 0
			for j, c := range p {
				if c.R == s[0] && c.G == s[1] && c.B == s[2] {
					idx = j
					break
				}
			}
			dst.SetColorIndex(x, y, uint8(idx))
		}
	}
	return dst
}
