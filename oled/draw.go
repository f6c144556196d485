// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import (
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// Draw implements display.Drawer.
//
// The source image is converted into the page organized framebuffer and the
// whole buffer is flushed synchronously; once this returns the panel is
// updated.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	if img, ok := src.(*image1bit.VerticalLSB); ok && r == d.Bounds() && img.Rect == d.Bounds() && sp.X == 0 && sp.Y == 0 {
		// Exact size, full frame, image1bit encoding: fast path!
		copy(d.buffer[1:], img.Pix)
		return d.flush()
	}
	// Draw straight into the framebuffer mirror; it shares the vertical LSB
	// layout of image1bit.
	mirror := &image1bit.VerticalLSB{
		Pix:    d.buffer[1:],
		Stride: Width,
		Rect:   d.Bounds(),
	}
	draw.Src.Draw(mirror, r.Intersect(d.Bounds()), src, sp)
	return d.flush()
}

var _ display.Drawer = &Dev{}
