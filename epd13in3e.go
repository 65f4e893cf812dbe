package epd13in3e

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/flavioheleno/epd13in3e/dither"
	"github.com/flavioheleno/epd13in3e/image6c"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

var (
	// ErrHalted is returned by every operation after Halt.
	ErrHalted = errors.New("epd13in3e: halted")
	// ErrBusyTimeout is returned when the BUSY line stays low for longer
	// than Opts.BusyTimeout.
	ErrBusyTimeout = errors.New("epd13in3e: timed out waiting for busy line")
)

// DefaultBusyTimeout bounds a single wait on the BUSY line. A full refresh
// takes about 20 seconds.
const DefaultBusyTimeout = 60 * time.Second

// Opts is the configuration for the panel.
type Opts struct {
	// Chip selects, driven in software since two controllers share the bus
	CSMain      gpio.PinOut // Controller of the left strip
	CSSecondary gpio.PinOut // Controller of the right strip

	Busy  gpio.PinIn  // Busy pin, low while a controller is working
	RST   gpio.PinOut // Reset pin (optional, nil if not used)
	Power gpio.PinOut // Panel power switch (optional, nil if not used)

	// Palette maps colors to codes (nil for image6c.DefaultPalette)
	Palette image6c.Palette

	// BusyTimeout bounds each wait on Busy (0 for DefaultBusyTimeout)
	BusyTimeout time.Duration
}

// Dev is the device handle for the panel.
type Dev struct {
	// Communication
	c           conn.Conn   // SPI connection
	maxTx       int         // Largest single transfer, 0 if unlimited
	dc          gpio.PinOut // Data/Command pin
	csMain      gpio.PinOut
	csSecondary gpio.PinOut
	busy        gpio.PinIn
	rst         gpio.PinOut // Reset pin (optional)
	power       gpio.PinOut // Power pin (optional)

	palette     image6c.Palette
	busyTimeout time.Duration

	// Last frame sent, nil before the first one
	buffer []byte

	// State
	halted bool
}

var _ display.Drawer = (*Dev)(nil)

// chip selects which controllers a transfer addresses.
type chip uint8

const (
	chipMain chip = 1 << iota
	chipSecondary
	chipBoth = chipMain | chipSecondary
)

// Controller commands.
const (
	cmdPanelSetting     = 0x00
	cmdPower            = 0x01
	cmdPowerOff         = 0x02
	cmdPowerOn          = 0x04
	cmdBoosterN         = 0x05
	cmdBoosterP         = 0x06
	cmdDeepSleep        = 0x07
	cmdDataStart        = 0x10
	cmdRefresh          = 0x12
	cmdVCOMInterval     = 0x50
	cmdTCON             = 0x60
	cmdResolution       = 0x61
	cmdAnalogTiming     = 0x74
	cmdAGID             = 0x86
	cmdBuckBoostVDDN    = 0xB0
	cmdTFTVCOMPower     = 0xB1
	cmdEnableBuffer     = 0xB6
	cmdBoostVDDPEnable  = 0xB7
	cmdCascadeSetting   = 0xE0
	cmdPowerSaving      = 0xE3
	cmdCMD66            = 0xF0
	deepSleepCheckValue = 0xA5
)

// initSequence is the controller setup sent after reset.
var initSequence = []struct {
	to   chip
	cmd  byte
	data []byte
}{
	{chipMain, cmdAnalogTiming, []byte{0xC0, 0x1C, 0x1C, 0xCC, 0xCC, 0xCC, 0x15, 0x15, 0x55}},
	{chipBoth, cmdCMD66, []byte{0x49, 0x55, 0x13, 0x5D, 0x05, 0x10}},
	{chipBoth, cmdPanelSetting, []byte{0xDF, 0x69}},
	{chipBoth, cmdVCOMInterval, []byte{0xF7}},
	{chipBoth, cmdTCON, []byte{0x03, 0x03}},
	{chipBoth, cmdAGID, []byte{0x10}},
	{chipBoth, cmdPowerSaving, []byte{0x22}},
	{chipBoth, cmdCascadeSetting, []byte{0x01}},
	{chipBoth, cmdResolution, []byte{0x04, 0xB0, 0x03, 0x20}},
	{chipMain, cmdPower, []byte{0x0F, 0x00, 0x28, 0x2C, 0x28, 0x38}},
	{chipMain, cmdEnableBuffer, []byte{0x07}},
	{chipMain, cmdBoosterP, []byte{0xE8, 0x28}},
	{chipMain, cmdBoostVDDPEnable, []byte{0x01}},
	{chipMain, cmdBoosterN, []byte{0xE8, 0x28}},
	{chipMain, cmdBuckBoostVDDN, []byte{0x01}},
	{chipMain, cmdTFTVCOMPower, []byte{0x02}},
}

// NewSPI creates a new panel device connected via SPI.
//
// The SPI port is configured for 10MHz, Mode0 (CPOL=0, CPHA=0), 8-bit
// transfers. The hardware chip select of the port must not be wired to the
// panel: both controllers are selected through opts.CSMain and
// opts.CSSecondary. The dc pin and opts.Busy must be configured by the caller
// as output and input respectively.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		return nil, errors.New("epd13in3e: options are required")
	}
	if dc == nil {
		return nil, errors.New("epd13in3e: DC pin is required")
	}
	if opts.CSMain == nil || opts.CSSecondary == nil {
		return nil, errors.New("epd13in3e: both chip select pins are required")
	}
	if opts.Busy == nil {
		return nil, errors.New("epd13in3e: busy pin is required")
	}

	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("epd13in3e: failed to connect SPI: %w", err)
	}

	d := &Dev{
		c:           c,
		dc:          dc,
		csMain:      opts.CSMain,
		csSecondary: opts.CSSecondary,
		busy:        opts.Busy,
		rst:         opts.RST,
		power:       opts.Power,
		palette:     opts.Palette,
		busyTimeout: opts.BusyTimeout,
	}
	if d.palette == nil {
		d.palette = image6c.DefaultPalette
	}
	if d.busyTimeout <= 0 {
		d.busyTimeout = DefaultBusyTimeout
	}
	if l, ok := c.(conn.Limits); ok {
		d.maxTx = l.MaxTxSize()
	}

	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init powers the panel, resets it and sends the initialization sequence.
func (d *Dev) init() error {
	if d.power != nil {
		if err := d.power.Out(gpio.High); err != nil {
			return fmt.Errorf("epd13in3e: failed to enable power: %w", err)
		}
	}
	if err := d.deselect(); err != nil {
		return err
	}

	// Hardware reset sequence (if RST pin is provided)
	if d.rst != nil {
		for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
			if err := d.rst.Out(l); err != nil {
				return fmt.Errorf("epd13in3e: failed to drive RST %s: %w", l, err)
			}
			time.Sleep(30 * time.Millisecond)
		}
	}
	if err := d.waitIdle(); err != nil {
		return err
	}

	for _, s := range initSequence {
		if err := d.send(s.to, s.cmd, s.data); err != nil {
			return err
		}
	}
	return nil
}

// selectChips drives the chip selects of to low.
func (d *Dev) selectChips(to chip) error {
	if to&chipMain != 0 {
		if err := d.csMain.Out(gpio.Low); err != nil {
			return err
		}
	}
	if to&chipSecondary != 0 {
		if err := d.csSecondary.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

// deselect releases both controllers.
func (d *Dev) deselect() error {
	if err := d.csMain.Out(gpio.High); err != nil {
		return err
	}
	return d.csSecondary.Out(gpio.High)
}

// send transmits cmd followed by data to the selected controllers.
func (d *Dev) send(to chip, cmd byte, data []byte) error {
	if err := d.selectChips(to); err != nil {
		return err
	}
	err := d.sendCommand(cmd)
	if err == nil && len(data) > 0 {
		err = d.sendData(data)
	}
	if derr := d.deselect(); err == nil {
		err = derr
	}
	if err != nil {
		return fmt.Errorf("epd13in3e: command 0x%02X: %w", cmd, err)
	}
	return nil
}

// sendCommand sends a single command byte.
func (d *Dev) sendCommand(cmd byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx([]byte{cmd}, nil)
}

// sendData sends data bytes, split to the port's transfer limit.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if d.maxTx > 0 && n > d.maxTx {
			n = d.maxTx
		}
		if err := d.c.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// waitIdle polls the BUSY line until the controllers release it.
func (d *Dev) waitIdle() error {
	deadline := time.Now().Add(d.busyTimeout)
	for d.busy.Read() == gpio.Low {
		if time.Now().After(deadline) {
			return ErrBusyTimeout
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// refresh makes the controllers show the frame they received.
func (d *Dev) refresh() error {
	if err := d.send(chipBoth, cmdPowerOn, nil); err != nil {
		return err
	}
	if err := d.waitIdle(); err != nil {
		return err
	}
	time.Sleep(50 * time.Millisecond)
	if err := d.send(chipBoth, cmdRefresh, []byte{0x00}); err != nil {
		return err
	}
	if err := d.waitIdle(); err != nil {
		return err
	}
	if err := d.send(chipBoth, cmdPowerOff, []byte{0x00}); err != nil {
		return err
	}
	return d.waitIdle()
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return d.palette.Model()
}

// Bounds returns the landscape content frame accepted by Draw. The panel
// itself is portrait; frames are rotated when packed.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Height, Width)
}

// Write sends a packed frame, as returned by Pack, and refreshes the panel.
// The data must be exactly BufferSize bytes: the first half goes to the main
// controller, the second half to the secondary one.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, ErrHalted
	}
	if len(pixels) != BufferSize {
		return 0, ErrBufferSize
	}
	if err := d.writeFrame(pixels); err != nil {
		return 0, err
	}
	d.buffer = append(d.buffer[:0], pixels...)
	return len(pixels), nil
}

// writeFrame sends both strips and refreshes.
func (d *Dev) writeFrame(pixels []byte) error {
	if err := d.send(chipMain, cmdDataStart, pixels[:StripSize]); err != nil {
		return err
	}
	if err := d.send(chipSecondary, cmdDataStart, pixels[StripSize:]); err != nil {
		return err
	}
	return d.refresh()
}

// Draw composes src onto a white landscape frame, dithers it to the palette
// and sends it. The dst rectangle specifies the destination region of the
// frame; src is read starting at sp. Areas outside dst are white.
//
// A frame identical to the previous one is not sent again, since a refresh
// takes several seconds and visibly flashes the panel.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}

	// Clip to display bounds
	dst = dst.Intersect(d.Bounds())
	if dst.Empty() {
		return nil
	}

	frame := image.NewRGBA(d.Bounds())
	draw.Draw(frame, frame.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(frame, dst, src, sp, draw.Over)

	pixels := Pack(dither.FloydSteinberg(frame, d.palette), d.palette)
	if d.buffer != nil && bytes.Equal(d.buffer, pixels) {
		return nil
	}
	_, err := d.Write(pixels)
	return err
}

// Clear fills the whole panel with c.
func (d *Dev) Clear(c image6c.Color) error {
	if d.halted {
		return ErrHalted
	}
	pixels := make([]byte, BufferSize)
	for _, s := range Strips(pixels, d.palette) {
		s.Fill(c.Code)
	}
	_, err := d.Write(pixels)
	return err
}

// Halt puts the controllers in deep sleep and cuts panel power if a power
// pin was provided. The image stays visible. After calling Halt the device
// does not respond to further operations until it is re-created.
func (d *Dev) Halt() error {
	d.halted = true
	if err := d.send(chipBoth, cmdDeepSleep, []byte{deepSleepCheckValue}); err != nil {
		return err
	}
	if d.power != nil {
		return d.power.Out(gpio.Low)
	}
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("epd13in3e.Dev{%dx%d}", Width, Height)
}
