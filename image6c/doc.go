// Package image6c provides the 6-color palette and the 4-bit packed image
// format used by 13.3" Spectra 6 class e-paper controllers.
//
// The controller addresses each pixel with a 4-bit color code. The codes are
// not contiguous, code 4 is reserved by the panel:
//
//	Color   RGB            Code
//	Black   (0,0,0)        0
//	White   (255,255,255)  1
//	Yellow  (255,255,0)    2
//	Red     (255,0,0)      3
//	Blue    (0,0,255)      5
//	Green   (0,255,0)      6
//
// Pixels are stored in horizontal nibble packing where each byte contains 2
// pixels, the even pixel in the high nibble:
//
//	Pixels: 0      1      2     3
//	Colors: Black  White  Red   Green
//	Bytes:  0x01          0x36
//
// This package provides:
//
// - Color: a palette entry, carrying both its RGB appearance and its code
// - Palette: an ordered list of entries with nearest-color and exact-code lookup
// - Model: a color model converting standard Go colors to the nearest entry
// - HorizontalNibble: an image.Image holding codes, used for each panel strip
//
// Example usage:
//
//	// Quantize an arbitrary color
//	c := image6c.DefaultPalette.Nearest(200, 30, 40)
//	println(c.Code) // Output: 3
//
//	// Build one 600x1600 strip and paint it white
//	img := image6c.NewHorizontalNibble(image.Rect(0, 0, 600, 1600), nil)
//	draw.Draw(img, img.Bounds(), image.NewUniform(image6c.White), image.Point{}, draw.Src)
package image6c
