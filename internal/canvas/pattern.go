package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/flavioheleno/epd13in3e/image6c"
)

var labels = map[uint8]string{
	image6c.CodeBlack:  "BLACK",
	image6c.CodeWhite:  "WHITE",
	image6c.CodeYellow: "YELLOW",
	image6c.CodeRed:    "RED",
	image6c.CodeBlue:   "BLUE",
	image6c.CodeGreen:  "GREEN",
}

// Pattern renders a calibration frame for the palette p: one bar per entry
// across the top half, then a gray ramp and a hue ramp that only dithering
// can reproduce.
func Pattern(p image6c.Palette) *image.RGBA {
	w, h := float64(Frame.Dx()), float64(Frame.Dy())
	dc := gg.NewContext(Frame.Dx(), Frame.Dy())
	dc.SetColor(color.White)
	dc.Clear()

	barH := h / 2
	if len(p) > 0 {
		barW := w / float64(len(p))
		dc.SetFontFace(basicfont.Face7x13)
		for i, c := range p {
			x := float64(i) * barW
			dc.SetColor(c)
			dc.DrawRectangle(x, 0, barW, barH)
			dc.Fill()

			label, ok := labels[c.Code]
			if !ok {
				continue
			}
			dc.SetColor(contrast(c))
			dc.DrawStringAnchored(label, x+barW/2, barH-20, 0.5, 0.5)
		}
	}

	rampH := (h - barH) / 2

	gray := gg.NewLinearGradient(0, 0, w, 0)
	gray.AddColorStop(0, color.Black)
	gray.AddColorStop(1, color.White)
	dc.SetFillStyle(gray)
	dc.DrawRectangle(0, barH, w, rampH)
	dc.Fill()

	hue := gg.NewLinearGradient(0, 0, w, 0)
	for i, c := range []color.Color{image6c.Red, image6c.Yellow, image6c.Green, image6c.Blue} {
		hue.AddColorStop(float64(i)/3, c)
	}
	dc.SetFillStyle(hue)
	dc.DrawRectangle(0, barH+rampH, w, h-barH-rampH)
	dc.Fill()

	dst := image.NewRGBA(Frame)
	draw.Draw(dst, dst.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return dst
}

// contrast picks black or white, whichever reads better on c.
func contrast(c image6c.Color) color.Color {
	if 299*int(c.R)+587*int(c.G)+114*int(c.B) > 128*1000 {
		return color.Black
	}
	return color.White
}
