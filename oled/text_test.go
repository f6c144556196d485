// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import (
	"bytes"
	"strings"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestWrapText(t *testing.T) {
	data := []struct {
		in   string
		want []string
	}{
		{"short", []string{"short"}},
		{
			"the quick brown fox jumps over the lazy dog",
			[]string{"the quick brown fox jumps", "over the lazy dog"},
		},
		{
			// Word landing exactly on the 26 cell boundary.
			"abcdefghij klmnopqrstuvwxy and more",
			[]string{"abcdefghij klmnopqrstuvwxy", "and more"},
		},
	}
	for _, line := range data {
		got := wrapText(line.in)
		if len(got) != len(line.want) {
			t.Fatalf("wrapText(%q) = %q, want %q", line.in, got, line.want)
		}
		for i := range got {
			if got[i] != line.want[i] {
				t.Errorf("wrapText(%q)[%d] = %q, want %q", line.in, i, got[i], line.want[i])
			}
		}
	}
}

func TestWrapTextReassembles(t *testing.T) {
	in := "one two three four five six seven eight nine ten eleven twelve"
	rows := wrapText(in)
	if len(rows) < 2 {
		t.Fatalf("expected at least 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if len(r) > textColumns {
			t.Errorf("row %q is %d cells, max is %d", r, len(r), textColumns)
		}
	}
	if joined := strings.Join(rows, " "); joined != in {
		t.Errorf("rows do not reassemble: %q", joined)
	}
}

func TestWrapTextLongWord(t *testing.T) {
	in := strings.Repeat("x", 30)
	rows := wrapText(in)
	if len(rows) != 2 || rows[0] != in[:26] || rows[1] != in[26:] {
		t.Fatalf("wrapText(%q) = %q", in, rows)
	}
}

func TestStartCell(t *testing.T) {
	data := []struct {
		length  int
		align   Align
		wrapped int
		want    int
	}{
		{5, Left, 0, 0},
		{5, Left, 3, 0},
		{6, Centre, 0, 10},
		{5, Centre, 0, 11},
		{5, Right, 0, 20},
		// The inherited quirk: wrapped lines drift one cell right each.
		{5, Right, 1, 21},
		{26, Right, 0, 0},
	}
	for _, line := range data {
		if got := startCell(line.length, line.align, line.wrapped); got != line.want {
			t.Errorf("startCell(%d, %v, %d) = %d, want %d", line.length, line.align, line.wrapped, got, line.want)
		}
	}
}

func TestShowSingleLine(t *testing.T) {
	bus := &i2ctest.Record{}
	dev, err := NewI2C(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Show("HELLO", 1, Left); err != nil {
		t.Fatal(err)
	}
	// Exactly one bulk write for the rendered line, covering columns 0-24
	// of page 0.
	last := bus.Ops[len(bus.Ops)-1]
	want := []byte{i2cData}
	for _, ch := range []byte("HELLO") {
		want = append(want, glyphColumns(ch)...)
	}
	if !bytes.Equal(last.W, want) {
		t.Fatalf("flushed %d bytes %#v, want %d bytes", len(last.W)-1, last.W, len(want)-1)
	}
	pos := bus.Ops[len(bus.Ops)-3]
	if !bytes.Equal(pos.W, []byte{i2cCmd, _COLUMNADDR, 0, Width - 1}) {
		t.Fatalf("line did not start at column 0: %#v", pos.W)
	}
	// One flush per line: init (16 ops) + position (2) + data (1).
	if got := len(bus.Ops); got != len(initOps(Addr))+3 {
		t.Fatalf("got %d ops, want %d", got, len(initOps(Addr))+3)
	}
}

func TestShowGlyphRaster(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Record{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Show("|", 1, Left); err != nil {
		t.Fatal(err)
	}
	// '|' is a single centered column; the glyph starts one pixel below
	// the top of the band, so bits 1..5 are lit.
	cell := dev.buffer[1:6]
	if want := []byte{0, 0, 0x3E, 0, 0}; !bytes.Equal(cell, want) {
		t.Fatalf("raster %#v, want %#v", cell, want)
	}
}

func TestShowWrapsAndAdvances(t *testing.T) {
	bus := &i2ctest.Record{}
	dev, err := NewI2C(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	text := "the quick brown fox jumps over the lazy dog"
	if err := dev.Show(text, 1, Left); err != nil {
		t.Fatal(err)
	}
	// Two wrapped lines land on rows 0 and 1.
	rows := wrapText(text)
	if len(rows) != 2 {
		t.Fatalf("test text wraps into %d rows, want 2", len(rows))
	}
	for i, r := range rows {
		for j := 0; j < len(r); j++ {
			got := dev.buffer[1+i*Width+j*cellWidth : 1+i*Width+(j+1)*cellWidth]
			if !bytes.Equal(got, glyphColumns(r[j])) {
				t.Fatalf("row %d cell %d: got %#v", i, j, got)
			}
		}
	}
}

func TestShowLastLineTruncates(t *testing.T) {
	bus := &i2ctest.Record{}
	dev, err := NewI2C(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Show(strings.Repeat("a b ", 20), 8, Left); err != nil {
		t.Fatal(err)
	}
	// No wrapping below the bottom row: a single 25 character line.
	last := bus.Ops[len(bus.Ops)-1]
	if len(last.W) != 1+25*cellWidth {
		t.Fatalf("flushed %d bytes, want %d", len(last.W), 1+25*cellWidth)
	}
	if got := len(bus.Ops); got != len(initOps(Addr))+3 {
		t.Fatalf("got %d ops, want %d", got, len(initOps(Addr))+3)
	}
}

func TestShowInvalidLine(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Record{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []int{0, 9, -1} {
		if err := dev.Show("x", line, Left); err == nil {
			t.Errorf("Show on line %d did not fail", line)
		}
		if err := dev.ClearLine(line); err == nil {
			t.Errorf("ClearLine(%d) did not fail", line)
		}
	}
}

func TestClearLine(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Record{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Show("some text to forget", 3, Left); err != nil {
		t.Fatal(err)
	}
	if err := dev.ClearLine(3); err != nil {
		t.Fatal(err)
	}
	row := dev.buffer[1+2*Width : 1+3*Width]
	if !bytes.Equal(row, make([]byte, Width)) {
		t.Fatal("row 3 still holds pixels after ClearLine")
	}
}

func TestShowNonASCIIFallsBack(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Record{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Show("\xff", 1, Left); err != nil {
		t.Fatal(err)
	}
	if got := dev.buffer[1:6]; !bytes.Equal(got, glyphColumns('?')) {
		t.Fatalf("non ASCII byte rendered %#v, want the fallback glyph", got)
	}
}
