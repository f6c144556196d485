// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// Panel geometry. The controller RAM is organized in 8 pages, each an
// horizontal band of 8 pixels high (1 byte) for 128 bytes.
const (
	Width  = 128
	Height = 64

	pages   = Height / 8
	bufLen  = 1 + Width*pages // leading data marker + GDDRAM mirror
	maxLine = pages           // text rows, 1-based in the public API
)

// The two bus addresses the panel can be strapped to.
const (
	Addr    uint16 = 0x3C
	AddrAlt uint16 = 0x3D
)

const (
	i2cCmd  = 0x00 // I²C transaction has a stream of command bytes
	i2cData = 0x40 // I²C transaction has a stream of data bytes
)

const (
	_SETCONTRAST        = 0x81
	_CHARGEPUMP         = 0x8D
	_SEGREMAP           = 0xA1
	_NORMALDISPLAY      = 0xA6
	_INVERTDISPLAY      = 0xA7
	_SETMULTIPLEX       = 0xA8
	_DISPLAYOFF         = 0xAE
	_DISPLAYON          = 0xAF
	_COMSCANDEC         = 0xC8
	_SETDISPLAYCLOCKDIV = 0xD5
	_ZOOMIN             = 0xD6
	_SETCOMPINS         = 0xDA
	_MEMORYMODE         = 0x20
	_COLUMNADDR         = 0x21
	_PAGEADDR           = 0x22
)

// initSeq is the controller configuration replayed on the first use of each
// Dev. Commands are issued as individual 1 and 2 byte register writes, the
// way the board firmware programs the chip.
var initSeq = [][]byte{
	{_DISPLAYOFF},
	{_SETDISPLAYCLOCKDIV, 0x80},
	{_SETMULTIPLEX, Height - 1},
	{_CHARGEPUMP, 0x14},
	{_MEMORYMODE, 0x00}, // horizontal addressing
	{_SETCONTRAST, 0xFF},
	{_SETCOMPINS, 0x12},
	{_SEGREMAP},
	{_COMSCANDEC},
	{_NORMALDISPLAY},
	{_ZOOMIN, 0x00},
	{_DISPLAYON},
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{Addr: Addr}

// Opts defines the options for the device.
type Opts struct {
	// Addr is the I²C address of the panel, Addr or AddrAlt.
	Addr uint16
}

// Dev is an open handle to one OLED panel.
//
// Each physical panel gets its own Dev with its own framebuffer and
// initialization state, so both bus addresses can be driven independently.
//
// Dev is not safe for concurrent use; the bus transactions of two operations
// must not interleave.
type Dev struct {
	c *i2c.Dev

	// buffer mirrors the controller GDDRAM. buffer[0] is the bus data
	// marker so the whole slice can go out in a single write; the pixel
	// byte for column x of page p lives at x + p*Width + 1.
	buffer      []byte
	initialized bool

	// Plotter state, see graph.go.
	samples    []int
	plotMin    int
	plotMax    int
	plotSeeded bool
}

// NewI2C returns a handle to the panel at opts.Addr.
//
// No bus traffic happens here; the controller is probed and configured
// lazily by the first operation (or by an explicit Init call).
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Addr != Addr && opts.Addr != AddrAlt {
		return nil, fmt.Errorf("oled: invalid address %#x: the panel responds on %#x or %#x", opts.Addr, Addr, AddrAlt)
	}
	d := &Dev{
		c:      &i2c.Dev{Bus: b, Addr: opts.Addr},
		buffer: make([]byte, bufLen),
	}
	d.buffer[0] = i2cData
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("oled.Dev{%s}", d.c)
}

// Init probes the controller, replays the configuration sequence and blanks
// the panel. It is called implicitly by every drawing operation; calling it
// directly only makes the probe failure surface earlier.
func (d *Dev) Init() error {
	if err := d.c.Tx([]byte{i2cCmd}, nil); err != nil {
		return fmt.Errorf("oled: no display controller at %#x: %w", d.c.Addr, err)
	}
	for _, c := range initSeq {
		if err := d.sendCommand(c...); err != nil {
			return err
		}
	}
	d.initialized = true
	return d.Clear()
}

func (d *Dev) ensureInit() error {
	if d.initialized {
		return nil
	}
	return d.Init()
}

// Clear zeroes the framebuffer, repositions the write cursor to the origin
// and pushes the whole buffer out.
func (d *Dev) Clear() error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	for i := 1; i < bufLen; i++ {
		d.buffer[i] = 0
	}
	return d.flush()
}

// Refresh repositions the write cursor to the origin and pushes the whole
// framebuffer out. Useful after a long run of partial updates to resync the
// panel with the mirror.
func (d *Dev) Refresh() error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	return d.flush()
}

// Invert switches between normal and inverted display mode. The framebuffer
// is untouched.
func (d *Dev) Invert(inverted bool) error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	if inverted {
		return d.sendCommand(_INVERTDISPLAY)
	}
	return d.sendCommand(_NORMALDISPLAY)
}

// SetDisplay turns the panel output on or off without discarding the
// buffered content.
func (d *Dev) SetDisplay(on bool) error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	if on {
		return d.sendCommand(_DISPLAYON)
	}
	return d.sendCommand(_DISPLAYOFF)
}

// Halt implements conn.Resource and turns the panel off.
func (d *Dev) Halt() error {
	return d.SetDisplay(false)
}

// SetPixel turns the pixel at (x, y) on and pushes only the touched byte to
// the controller.
func (d *Dev) SetPixel(x, y int) error {
	return d.writePixel(x, y, true)
}

// ClearPixel turns the pixel at (x, y) off and pushes only the touched byte
// to the controller.
func (d *Dev) ClearPixel(x, y int) error {
	return d.writePixel(x, y, false)
}

func (d *Dev) writePixel(x, y int, on bool) error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	if err := checkBounds(x, y); err != nil {
		return err
	}
	idx, mask := pixelOffset(x, y)
	if on {
		d.buffer[idx] |= mask
	} else {
		d.buffer[idx] &^= mask
	}
	return d.flushByte(x, y/8)
}

// Direction selects the orientation of DrawLine.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// DrawLine draws a 1 pixel thick line of length pixels starting at (x, y),
// going right for Horizontal and down for Vertical. Vertical lines are
// capped at the full column height of 63 pixels. The part of a line that
// would leave the panel is dropped.
func (d *Dev) DrawLine(dir Direction, length, x, y int) error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	if err := checkBounds(x, y); err != nil {
		return err
	}
	if length < 1 {
		return fmt.Errorf("oled: invalid line length %d", length)
	}
	switch dir {
	case Horizontal:
		if length > Width-x {
			length = Width - x
		}
		for i := 0; i < length; i++ {
			if err := d.SetPixel(x+i, y); err != nil {
				return err
			}
		}
	case Vertical:
		if length > Height-1 {
			length = Height - 1
		}
		if length > Height-y {
			length = Height - y
		}
		for i := 0; i < length; i++ {
			if err := d.SetPixel(x, y+i); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("oled: invalid line direction %d", dir)
	}
	return nil
}

// DrawRect draws the border of a w by h rectangle with its top-left corner
// at (x, y). The interior is left untouched.
func (d *Dev) DrawRect(w, h, x, y int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("oled: invalid rectangle %dx%d", w, h)
	}
	if err := d.DrawLine(Horizontal, w, x, y); err != nil {
		return err
	}
	if err := d.DrawLine(Horizontal, w, x, y+h-1); err != nil {
		return err
	}
	if err := d.DrawLine(Vertical, h, x, y); err != nil {
		return err
	}
	return d.DrawLine(Vertical, h, x+w-1, y)
}

// pixelOffset maps panel coordinates to the index of the framebuffer byte
// holding the pixel and the mask of its bit within that byte. Coordinates
// must already be validated with checkBounds.
func pixelOffset(x, y int) (int, byte) {
	return x + (y/8)*Width + 1, 1 << (uint(y) & 7)
}

func checkBounds(x, y int) error {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return fmt.Errorf("oled: point (%d, %d) is outside the %dx%d panel", x, y, Width, Height)
	}
	return nil
}

// sendCommand writes control register bytes, prefixed with the command
// marker.
func (d *Dev) sendCommand(c ...byte) error {
	return d.c.Tx(append([]byte{i2cCmd}, c...), nil)
}

// setPos moves the controller write cursor to column x of page p.
func (d *Dev) setPos(x, p int) error {
	if err := d.sendCommand(_COLUMNADDR, byte(x), Width-1); err != nil {
		return err
	}
	return d.sendCommand(_PAGEADDR, byte(p), pages-1)
}

// flush pushes the whole framebuffer in a single data write.
func (d *Dev) flush() error {
	if err := d.setPos(0, 0); err != nil {
		return err
	}
	return d.c.Tx(d.buffer, nil)
}

// flushByte pushes the single framebuffer byte at column x of page p.
func (d *Dev) flushByte(x, p int) error {
	if err := d.setPos(x, p); err != nil {
		return err
	}
	return d.c.Tx([]byte{i2cData, d.buffer[x+p*Width+1]}, nil)
}

// flushRange pushes the n framebuffer bytes starting at column x of page p.
func (d *Dev) flushRange(x, p, n int) error {
	if err := d.setPos(x, p); err != nil {
		return err
	}
	start := x + p*Width + 1
	return d.c.Tx(append([]byte{i2cData}, d.buffer[start:start+n]...), nil)
}
