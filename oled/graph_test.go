// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import (
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func (d *Dev) pixelLit(x, y int) bool {
	idx, mask := pixelOffset(x, y)
	return d.buffer[idx]&mask != 0
}

func TestPlotSlidingWindow(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Record{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 130; i++ {
		if err := dev.Plot(float64(i)); err != nil {
			t.Fatal(err)
		}
	}
	if len(dev.samples) != maxSamples {
		t.Fatalf("window holds %d samples, want %d", len(dev.samples), maxSamples)
	}
	// The oldest three samples were evicted: #4..#130 remain, in order.
	for i, s := range dev.samples {
		if s != i+4 {
			t.Fatalf("samples[%d] = %d, want %d", i, s, i+4)
		}
	}
}

func TestPlotBoundsOnlyWiden(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Record{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	values := []float64{10, 5, 20, 7, 7, -3, 15}
	lastMin, lastMax := 10, 10
	for _, v := range values {
		if err := dev.Plot(v); err != nil {
			t.Fatal(err)
		}
		if dev.plotMin > lastMin || dev.plotMax < lastMax {
			t.Fatalf("bounds shrank to [%d, %d] after %v", dev.plotMin, dev.plotMax, v)
		}
		lastMin, lastMax = dev.plotMin, dev.plotMax
		for _, s := range dev.samples {
			if s < dev.plotMin || s > dev.plotMax {
				t.Fatalf("sample %d outside [%d, %d]", s, dev.plotMin, dev.plotMax)
			}
		}
	}
	if dev.plotMin != -3 || dev.plotMax != 20 {
		t.Fatalf("bounds [%d, %d], want [-3, 20]", dev.plotMin, dev.plotMax)
	}
}

func TestPlotRowMapping(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Record{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	dev.plotSeeded = true
	dev.plotMin, dev.plotMax = 0, 10
	data := []struct {
		v    int
		want int
	}{
		{0, graphBottom},
		{10, graphTop},
		{5, 41}, // 63 - round(0.5*43) = 63 - 22
	}
	for _, line := range data {
		if got := dev.plotRow(line.v); got != line.want {
			t.Errorf("plotRow(%d) = %d, want %d", line.v, got, line.want)
		}
	}
	// A flat series sits on the bottom row.
	dev.plotMax = 0
	if got := dev.plotRow(0); got != graphBottom {
		t.Errorf("flat series row = %d, want %d", got, graphBottom)
	}
}

func TestPlotDrawsSegments(t *testing.T) {
	bus := &i2ctest.Record{}
	dev, err := NewI2C(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Plot(0); err != nil {
		t.Fatal(err)
	}
	// First sample: single pixel at the bottom of column 0.
	if !dev.pixelLit(0, graphBottom) {
		t.Fatal("first sample pixel not lit")
	}
	for y := graphTop; y < graphBottom; y++ {
		if dev.pixelLit(0, y) {
			t.Fatalf("stray pixel at (0, %d)", y)
		}
	}

	if err := dev.Plot(10); err != nil {
		t.Fatal(err)
	}
	// Second sample expands the scale and joins rows 63 and 20 in column 1.
	for y := graphTop; y <= graphBottom; y++ {
		if !dev.pixelLit(1, y) {
			t.Fatalf("connecting segment misses (1, %d)", y)
		}
	}

	// Each Plot ends in one full buffer flush.
	last := bus.Ops[len(bus.Ops)-1]
	if len(last.W) != bufLen {
		t.Fatalf("plot flushed %d bytes, want the full %d", len(last.W), bufLen)
	}
}

func TestPlotClearsColumnBand(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Record{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Litter the graph band of column 0, and put a pixel just above it
	// that the plotter must not touch.
	if err := dev.SetPixel(0, graphTop-1); err != nil {
		t.Fatal(err)
	}
	for y := graphTop; y <= graphBottom; y++ {
		idx, mask := pixelOffset(0, y)
		dev.buffer[idx] |= mask
	}
	if err := dev.Plot(5); err != nil {
		t.Fatal(err)
	}
	for y := graphTop; y < graphBottom; y++ {
		if dev.pixelLit(0, y) {
			t.Fatalf("band pixel (0, %d) survived the redraw", y)
		}
	}
	if !dev.pixelLit(0, graphBottom) {
		t.Fatal("sample pixel not lit after redraw")
	}
	if !dev.pixelLit(0, graphTop-1) {
		t.Fatal("plotter clobbered a pixel above the graph band")
	}
}
