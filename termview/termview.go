// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a display.Drawer that renders the board's
// 128×64 monochrome panel to a terminal using ANSI color codes.
//
// Useful for developing screen layouts on a desktop before the add-on
// board comes by mail.
package termview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Opts represents the options available for this display.
type Opts struct {
	W       int
	H       int
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultOpts matches the panel on the add-on board.
var DefaultOpts = Opts{W: 128, H: 64}

// Dev is a monochrome panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	width   int
	height  int
	palette ansi256.Palette

	pixels *image1bit.VerticalLSB
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter is like New with the output stream under the caller's control.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:       w,
		width:   opts.W,
		height:  opts.H,
		palette: *p,
		pixels:  image1bit.NewVerticalLSB(image.Rect(0, 0, opts.W, opts.H)),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermView{%dx%d}", d.width, d.height)
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so following output is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Write accepts a raw page-organized frame, 8 rows per byte with the least
// significant bit on top, the same layout the panel itself takes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.pixels.Pix) {
		return 0, fmt.Errorf("termview: frame is %d bytes, want %d", len(pixels), len(d.pixels.Pix))
	}
	copy(d.pixels.Pix, pixels)
	return len(pixels), d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	draw.Src.Draw(d.pixels, r, src, sp)
	return d.refresh()
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per
	// call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H")
	for y := 0; y < d.height; y++ {
		_, _ = d.buf.WriteString("\033[0m")
		for x := 0; x < d.width; x++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(nrgba(d.pixels.BitAt(x, y))))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

func nrgba(b image1bit.Bit) color.NRGBA {
	if b == image1bit.On {
		return color.NRGBA{255, 255, 255, 255}
	}
	return color.NRGBA{0, 0, 0, 255}
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
