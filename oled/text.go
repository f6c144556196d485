// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import (
	"fmt"
	"strings"
)

// textColumns is the panel width in character cells.
const textColumns = 26

// cellWidth is the width of one character cell in pixels.
const cellWidth = 5

// Align selects the horizontal placement of a rendered text line.
type Align int

const (
	Left Align = iota
	Centre
	Right
)

// Show renders text starting at the given 1-based line (1..8).
//
// Input longer than 25 characters is broken with greedy word wrap: each
// produced line packs as many whole words as fit in 26 cells, and every
// produced line advances one row. Rendering stops at the bottom row; on the
// bottom row itself no wrapping is possible, so the text is cut at 25
// characters instead.
//
// Right alignment shifts every wrapped line one extra cell to the right,
// matching the board firmware it replaces.
//
// Only the byte range covered by each rendered line is pushed to the
// controller.
func (d *Dev) Show(text string, line int, align Align) error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	if line < 1 || line > maxLine {
		return fmt.Errorf("oled: invalid line %d, must be 1 to %d", line, maxLine)
	}
	row := line - 1
	var rows []string
	switch {
	case row == pages-1:
		if len(text) > textColumns-1 {
			text = text[:textColumns-1]
		}
		rows = []string{text}
	case len(text) <= textColumns-1:
		rows = []string{text}
	default:
		rows = wrapText(text)
	}
	for i, r := range rows {
		if row >= pages {
			break
		}
		if err := d.renderLine(r, row, align, i); err != nil {
			return err
		}
		row++
	}
	return nil
}

// ClearLine blanks a text line by rendering a full row of spaces onto it.
func (d *Dev) ClearLine(line int) error {
	if err := d.ensureInit(); err != nil {
		return err
	}
	if line < 1 || line > maxLine {
		return fmt.Errorf("oled: invalid line %d, must be 1 to %d", line, maxLine)
	}
	return d.renderLine(strings.Repeat(" ", textColumns), line-1, Left, 0)
}

// wrapText splits text into rows of at most textColumns characters, breaking
// at spaces and packing as many whole words as fit per row. A single word
// longer than a full row is cut hard.
func wrapText(text string) []string {
	var rows []string
	cur := ""
	for _, w := range strings.Split(text, " ") {
		for len(w) > textColumns {
			if cur != "" {
				rows = append(rows, cur)
				cur = ""
			}
			rows = append(rows, w[:textColumns])
			w = w[textColumns:]
		}
		switch {
		case cur == "":
			cur = w
		case len(cur)+1+len(w) <= textColumns:
			cur += " " + w
		default:
			rows = append(rows, cur)
			cur = w
		}
	}
	return append(rows, cur)
}

// startCell computes the character cell a line starts at. wrapped is the
// index of the line within its Show call.
func startCell(length int, align Align, wrapped int) int {
	cell := 0
	switch align {
	case Centre:
		cell = (textColumns - length + 1) / 2
	case Right:
		cell = textColumns - length - 1 + wrapped
	}
	if cell < 0 {
		cell = 0
	}
	return cell
}

// renderLine rasterizes one laid-out line into the framebuffer at the given
// row and flushes exactly the byte range it covered.
func (d *Dev) renderLine(text string, row int, align Align, wrapped int) error {
	if text == "" {
		return nil
	}
	startCol := startCell(len(text), align, wrapped) * cellWidth
	raster := make([]byte, 0, len(text)*cellWidth)
	for i := 0; i < len(text); i++ {
		raster = append(raster, glyphColumns(text[i])...)
	}
	if startCol >= Width {
		return nil
	}
	if n := Width - startCol; len(raster) > n {
		raster = raster[:n]
	}
	copy(d.buffer[1+row*Width+startCol:], raster)
	return d.flushRange(startCol, row, len(raster))
}

// glyphColumns rasterizes one character into its cell's column bytes. The
// glyph occupies bits 1..5 so a blank pixel row is left at the top of the
// band for line spacing.
func glyphColumns(ch byte) []byte {
	g := glyphFor(ch)
	cols := make([]byte, cellWidth)
	for c := 0; c < cellWidth; c++ {
		var b byte
		for r := 0; r < 5; r++ {
			if g&(1<<uint(cellWidth*c+r)) != 0 {
				b |= 1 << uint(r+1)
			}
		}
		cols[c] = b
	}
	return cols
}
