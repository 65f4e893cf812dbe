// Package epd13in3e drives 13.3" 6-color (Spectra 6) e-paper panels via SPI
// and converts images into the frames they display.
//
// The panel is 1200×1600 pixels, portrait, driven by two controllers that
// each own a 600 pixel wide vertical strip. Every pixel is one of six colors
// sent as a 4-bit code, two pixels per byte. This driver implements the
// display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 6 colors: black, white, yellow, red, blue and green (see image6c)
// - 1200×1600 pixels, content authored landscape (1600×1200) and rotated
// - Frames of 960000 bytes, the first half for the main controller
// - Full refresh only, about 20 seconds, the image stays without power
//
// # Hardware Connection
//
// Connect the panel (e.g. the Waveshare 13.3" E6 HAT) via SPI. The two chip
// selects are plain GPIOs, driven by the driver:
//
//	Panel Pin → System Pin
//	GND       → GND
//	VCC       → 3.3V
//	CLK       → SPI Clock (SCLK)
//	DIN       → SPI Data (MOSI)
//	CS_M      → GPIO8
//	CS_S      → GPIO7
//	DC        → GPIO25
//	RST       → GPIO17
//	BUSY      → GPIO24 (low while busy)
//	PWR       → GPIO18 (optional panel power switch)
//
// # Pipeline
//
// Converting an image is pure and needs no hardware:
//
//	dithered := dither.FloydSteinberg(img, image6c.DefaultPalette)
//	frame := epd13in3e.Pack(dithered, image6c.DefaultPalette)
//
// dither.FloydSteinberg maps every pixel to a palette color, diffusing the
// quantization error to its neighbors. Pack rotates the landscape image onto
// the portrait panel and packs it into the two controller strips. Panel
// pixels that fall outside the source stay 0, which is black. Preview turns
// a frame back into the image the panel will show.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"image"
//
//		"github.com/flavioheleno/epd13in3e"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open SPI bus
//		spiBus, _ := spireg.Open("")
//
//		dev, _ := epd13in3e.NewSPI(spiBus, gpioreg.ByName("GPIO25"), &epd13in3e.Opts{
//			CSMain:      gpioreg.ByName("GPIO8"),
//			CSSecondary: gpioreg.ByName("GPIO7"),
//			Busy:        gpioreg.ByName("GPIO24"),
//			RST:         gpioreg.ByName("GPIO17"),
//			Power:       gpioreg.ByName("GPIO18"),
//		})
//		defer dev.Halt()
//
//		// Dithers, packs and refreshes; img is any 1600×1200 image
//		dev.Draw(dev.Bounds(), img, image.Point{})
//	}
//
// Write sends a frame that was packed beforehand, e.g. by the epdconvert
// command:
//
//	frame, _ := os.ReadFile("photo.bin")
//	dev.Write(frame)
//
// # Compatibility with periph.io
//
// It can be used with any periph.io tool or library expecting a
// display.Drawer.
package epd13in3e
