// Package canvas prepares images for the panel: it fits arbitrary pictures
// onto the white landscape frame and renders a calibration pattern.
package canvas

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/flavioheleno/epd13in3e"
)

// Frame is the landscape content frame the panel shows.
var Frame = image.Rect(0, 0, epd13in3e.Height, epd13in3e.Width)

// Inside scales a w x h picture as large as possible inside maxW x maxH
// keeping its aspect ratio, and centers it.
func Inside(bounds image.Rectangle, maxW, maxH int) image.Rectangle {
	imgW, imgH := bounds.Dx(), bounds.Dy()
	if imgW <= 0 || imgH <= 0 || maxW <= 0 || maxH <= 0 {
		return image.Rectangle{}
	}
	ratio := float64(maxW) / float64(imgW)
	if r := float64(maxH) / float64(imgH); r < ratio {
		ratio = r
	}
	scaledW := int(ratio * float64(imgW))
	scaledH := int(ratio * float64(imgH))
	left := (maxW - scaledW) / 2
	top := (maxH - scaledH) / 2
	return image.Rect(left, top, left+scaledW, top+scaledH)
}

// Fit draws src scaled inside Frame on a white background. Transparent areas
// of src show white.
func Fit(src image.Image) *image.RGBA {
	dst := image.NewRGBA(Frame)
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	r := Inside(src.Bounds(), Frame.Dx(), Frame.Dy())
	if r.Empty() {
		return dst
	}
	if r.Size() == src.Bounds().Size() {
		draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, r, src, src.Bounds(), xdraw.Over, nil)
	return dst
}
