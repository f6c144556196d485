// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import (
	"image"
	"image/draw"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func TestDrawFullFrame(t *testing.T) {
	bus := &i2ctest.Record{}
	dev, err := NewI2C(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	img := image1bit.NewVerticalLSB(dev.Bounds())
	draw.Src.Draw(img, image.Rect(0, 0, 8, 8), &image.Uniform{image1bit.On}, image.Point{})
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			if !dev.pixelLit(x, y) {
				t.Fatalf("pixel (%d, %d) not lit", x, y)
			}
		}
	}
	if dev.pixelLit(8, 0) || dev.pixelLit(0, 8) {
		t.Fatal("pixels outside the drawn square are lit")
	}
	if last := bus.Ops[len(bus.Ops)-1]; len(last.W) != bufLen {
		t.Fatalf("Draw flushed %d bytes, want the full %d", len(last.W), bufLen)
	}
}

func TestDrawPartial(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Record{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// A generic image drawn into a sub-rectangle.
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	if err := dev.Draw(image.Rect(10, 10, 14, 14), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	for x := 10; x < 14; x++ {
		for y := 10; y < 14; y++ {
			if !dev.pixelLit(x, y) {
				t.Fatalf("pixel (%d, %d) not lit", x, y)
			}
		}
	}
	if dev.pixelLit(9, 10) || dev.pixelLit(10, 14) {
		t.Fatal("draw leaked outside the target rectangle")
	}
}
