// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package zipled

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// The SK6812 reads bits at 800kHz; each bit is sent as a three bit SPI
// symbol so the bus runs at 2.4MHz.
const bitRate = 2400 * physic.KiloHertz

// latchBytes of zeroes hold the line low for the 80µs reset the chip needs
// to latch, 100µs at 2.4Mbit/s.
const latchBytes = 30

// nrz maps every byte to its 24 bit wire form, MSB first, one being 110
// and zero being 100.
var nrz [256][3]byte

func init() {
	for v := 0; v < 256; v++ {
		var bits uint32
		for b := 7; b >= 0; b-- {
			bits <<= 3
			if v&(1<<uint(b)) != 0 {
				bits |= 0b110
			} else {
				bits |= 0b100
			}
		}
		nrz[v] = [3]byte{byte(bits >> 16), byte(bits >> 8), byte(bits)}
	}
}

// Opts holds the configuration options.
type Opts struct {
	// NumPixels is the length of the strip. The add-on board carries 3.
	NumPixels int
}

// DefaultOpts are the recommended default options.
var DefaultOpts = Opts{NumPixels: 3}

// Dev is a handle to the LED strip.
//
// Dev is not safe for concurrent use.
type Dev struct {
	c spi.Conn
	n int

	// pixels holds RGB triplets; the wire order is GRB.
	pixels []byte
	scale  uint16
	tx     []byte
}

// NewSPI returns a strip driver on SPI port p. The port's clock and mode
// are fixed by the LED protocol.
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.NumPixels <= 0 {
		return nil, fmt.Errorf("zipled: strip length %d is not positive", opts.NumPixels)
	}
	c, err := p.Connect(bitRate, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("zipled: %w", err)
	}
	return &Dev{
		c:      c,
		n:      opts.NumPixels,
		pixels: make([]byte, 3*opts.NumPixels),
		scale:  255,
		tx:     make([]byte, 9*opts.NumPixels+latchBytes),
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("zipled.Dev{%d leds, %s}", d.n, d.c)
}

// SetPixel stages the colour of led i. Nothing reaches the strip until
// Show.
func (d *Dev) SetPixel(i int, r, g, b byte) error {
	if i < 0 || i >= d.n {
		return fmt.Errorf("zipled: pixel %d outside the strip's 0..%d", i, d.n-1)
	}
	d.pixels[3*i] = r
	d.pixels[3*i+1] = g
	d.pixels[3*i+2] = b
	return nil
}

// Brightness scales every channel by f, 0 for dark to 1 for full drive.
// It applies from the next Show.
func (d *Dev) Brightness(f float64) error {
	if f < 0 || f > 1 {
		return fmt.Errorf("zipled: brightness %g outside 0..1", f)
	}
	d.scale = uint16(f * 255)
	return nil
}

// Show pushes the staged pixels to the strip.
func (d *Dev) Show() error {
	w := d.tx[:0]
	for i := 0; i < d.n; i++ {
		r := d.pixels[3*i]
		g := d.pixels[3*i+1]
		b := d.pixels[3*i+2]
		// GRB on the wire.
		for _, ch := range [3]byte{g, r, b} {
			sym := nrz[byte(uint16(ch)*d.scale/255)]
			w = append(w, sym[0], sym[1], sym[2])
		}
	}
	w = w[:len(w)+latchBytes]
	for i := 9 * d.n; i < len(w); i++ {
		w[i] = 0
	}
	return d.c.Tx(w, nil)
}

// Halt implements conn.Resource. It blanks the strip.
func (d *Dev) Halt() error {
	for i := range d.pixels {
		d.pixels[i] = 0
	}
	return d.Show()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer. The strip is a 1 pixel tall line.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: d.n, Y: 1}}
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if dX := r.Dx(); dX < srcR.Dx() {
		srcR.Max.X = srcR.Min.X + dX
	}
	for sX := srcR.Min.X; sX < srcR.Max.X; sX++ {
		r16, g16, b16, _ := src.At(sX, srcR.Min.Y).RGBA()
		dX3 := 3 * (sX - srcR.Min.X + r.Min.X)
		d.pixels[dX3] = byte(r16 >> 8)
		d.pixels[dX3+1] = byte(g16 >> 8)
		d.pixels[dX3+2] = byte(b16 >> 8)
	}
	return d.Show()
}

var _ display.Drawer = &Dev{}
