// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import "math"

// The plotted band. Row 20 is the top of the graph so the two top text lines
// stay usable for labels; row 63 is the bottom of the panel.
const (
	graphTop    = 20
	graphBottom = Height - 1
	maxSamples  = 127
)

// Plot records one sample and redraws the running graph.
//
// The window keeps the most recent 127 samples, one panel column per sample,
// oldest on the left. The vertical scale covers [min, max] of everything
// ever plotted on this Dev: the bounds only widen, so the trace never jumps
// when a new extreme arrives, it compresses.
//
// Consecutive samples are joined by a vertical segment so the trace reads as
// a continuous line. The whole framebuffer is flushed once per call.
func (d *Dev) Plot(value float64) error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	v := int(math.Round(value))
	if !d.plotSeeded {
		d.plotMin, d.plotMax = v, v
		d.plotSeeded = true
	}
	if v < d.plotMin {
		d.plotMin = v
	}
	if v > d.plotMax {
		d.plotMax = v
	}
	if len(d.samples) == maxSamples {
		d.samples = append(d.samples[:0], d.samples[1:]...)
	}
	d.samples = append(d.samples, v)

	prev := 0
	for i, s := range d.samples {
		row := d.plotRow(s)
		if i == 0 {
			prev = row
		}
		d.clearGraphColumn(i)
		lo, hi := prev, row
		if lo > hi {
			lo, hi = hi, lo
		}
		for y := lo; y <= hi; y++ {
			idx, mask := pixelOffset(i, y)
			d.buffer[idx] |= mask
		}
		prev = row
	}
	return d.flush()
}

// plotRow maps a sample to its panel row. Larger values sit higher on the
// panel, hence nearer row 0.
func (d *Dev) plotRow(v int) int {
	span := d.plotMax - d.plotMin
	if span == 0 {
		return graphBottom
	}
	scaled := float64(v-d.plotMin) / float64(span) * float64(graphBottom-graphTop)
	return graphBottom - int(math.Round(scaled))
}

// clearGraphColumn blanks the graph band of one column in the framebuffer so
// the column can be redrawn without per-pixel diffing.
func (d *Dev) clearGraphColumn(x int) {
	topPage := graphTop / 8
	topShift := uint(graphTop) & 7
	d.buffer[x+topPage*Width+1] &^= ^byte(0) << topShift
	for p := topPage + 1; p < pages; p++ {
		d.buffer[x+p*Width+1] = 0
	}
}
