// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

// The renderer uses a 5x5 pixel font in a 5 column cell, drawn one pixel
// below the top of its page row so consecutive text lines stay separated.
//
// Each glyph is packed into a 25 bit constant where bit 5*col+row is the
// pixel at (col, row) of the cell. The packed table is built once from the
// row art below; glyphRows holds one byte per row with bit 4 as the leftmost
// column.

const glyphFallback = '?'

var glyphs [128]uint32

func init() {
	for i := range glyphs {
		glyphs[i] = packGlyph(glyphFallback)
	}
	for ch := range glyphRows {
		glyphs[ch] = packGlyph(ch)
	}
}

func packGlyph(ch byte) uint32 {
	rows := glyphRows[ch]
	var g uint32
	for c := 0; c < 5; c++ {
		for r := 0; r < 5; r++ {
			if rows[r]&(1<<(4-uint(c))) != 0 {
				g |= 1 << uint(5*c+r)
			}
		}
	}
	return g
}

// glyphFor returns the packed glyph for a character code, substituting the
// fallback for anything outside the table.
func glyphFor(ch byte) uint32 {
	if ch > 127 {
		ch = glyphFallback
	}
	return glyphs[ch]
}

var glyphRows = map[byte][5]byte{
	' ':  {0b00000, 0b00000, 0b00000, 0b00000, 0b00000},
	'!':  {0b00100, 0b00100, 0b00100, 0b00000, 0b00100},
	'"':  {0b01010, 0b01010, 0b00000, 0b00000, 0b00000},
	'#':  {0b01010, 0b11111, 0b01010, 0b11111, 0b01010},
	'$':  {0b01111, 0b10100, 0b01110, 0b00101, 0b11110},
	'%':  {0b11001, 0b11010, 0b00100, 0b01011, 0b10011},
	'&':  {0b01100, 0b10010, 0b01100, 0b10101, 0b01101},
	'\'': {0b00100, 0b00100, 0b00000, 0b00000, 0b00000},
	'(':  {0b00010, 0b00100, 0b00100, 0b00100, 0b00010},
	')':  {0b01000, 0b00100, 0b00100, 0b00100, 0b01000},
	'*':  {0b00000, 0b01010, 0b00100, 0b01010, 0b00000},
	'+':  {0b00000, 0b00100, 0b01110, 0b00100, 0b00000},
	',':  {0b00000, 0b00000, 0b00000, 0b00100, 0b01000},
	'-':  {0b00000, 0b00000, 0b01110, 0b00000, 0b00000},
	'.':  {0b00000, 0b00000, 0b00000, 0b00000, 0b00100},
	'/':  {0b00001, 0b00010, 0b00100, 0b01000, 0b10000},
	'0':  {0b01110, 0b10011, 0b10101, 0b11001, 0b01110},
	'1':  {0b00100, 0b01100, 0b00100, 0b00100, 0b01110},
	'2':  {0b01110, 0b10001, 0b00110, 0b01000, 0b11111},
	'3':  {0b11110, 0b00001, 0b00110, 0b00001, 0b11110},
	'4':  {0b00110, 0b01010, 0b10010, 0b11111, 0b00010},
	'5':  {0b11111, 0b10000, 0b11110, 0b00001, 0b11110},
	'6':  {0b01110, 0b10000, 0b11110, 0b10001, 0b01110},
	'7':  {0b11111, 0b00010, 0b00100, 0b01000, 0b10000},
	'8':  {0b01110, 0b10001, 0b01110, 0b10001, 0b01110},
	'9':  {0b01110, 0b10001, 0b01111, 0b00001, 0b01110},
	':':  {0b00000, 0b00100, 0b00000, 0b00100, 0b00000},
	';':  {0b00000, 0b00100, 0b00000, 0b00100, 0b01000},
	'<':  {0b00010, 0b00100, 0b01000, 0b00100, 0b00010},
	'=':  {0b00000, 0b01110, 0b00000, 0b01110, 0b00000},
	'>':  {0b01000, 0b00100, 0b00010, 0b00100, 0b01000},
	'?':  {0b01110, 0b10001, 0b00110, 0b00000, 0b00100},
	'@':  {0b01110, 0b10001, 0b10111, 0b10000, 0b01111},
	'A':  {0b01110, 0b10001, 0b11111, 0b10001, 0b10001},
	'B':  {0b11110, 0b10001, 0b11110, 0b10001, 0b11110},
	'C':  {0b01111, 0b10000, 0b10000, 0b10000, 0b01111},
	'D':  {0b11110, 0b10001, 0b10001, 0b10001, 0b11110},
	'E':  {0b11111, 0b10000, 0b11110, 0b10000, 0b11111},
	'F':  {0b11111, 0b10000, 0b11110, 0b10000, 0b10000},
	'G':  {0b01111, 0b10000, 0b10011, 0b10001, 0b01111},
	'H':  {0b10001, 0b10001, 0b11111, 0b10001, 0b10001},
	'I':  {0b01110, 0b00100, 0b00100, 0b00100, 0b01110},
	'J':  {0b00111, 0b00010, 0b00010, 0b10010, 0b01100},
	'K':  {0b10010, 0b10100, 0b11000, 0b10100, 0b10010},
	'L':  {0b10000, 0b10000, 0b10000, 0b10000, 0b11111},
	'M':  {0b10001, 0b11011, 0b10101, 0b10001, 0b10001},
	'N':  {0b10001, 0b11001, 0b10101, 0b10011, 0b10001},
	'O':  {0b01110, 0b10001, 0b10001, 0b10001, 0b01110},
	'P':  {0b11110, 0b10001, 0b11110, 0b10000, 0b10000},
	'Q':  {0b01110, 0b10001, 0b10101, 0b10010, 0b01101},
	'R':  {0b11110, 0b10001, 0b11110, 0b10100, 0b10010},
	'S':  {0b01111, 0b10000, 0b01110, 0b00001, 0b11110},
	'T':  {0b11111, 0b00100, 0b00100, 0b00100, 0b00100},
	'U':  {0b10001, 0b10001, 0b10001, 0b10001, 0b01110},
	'V':  {0b10001, 0b10001, 0b01010, 0b01010, 0b00100},
	'W':  {0b10001, 0b10001, 0b10101, 0b11011, 0b10001},
	'X':  {0b10001, 0b01010, 0b00100, 0b01010, 0b10001},
	'Y':  {0b10001, 0b01010, 0b00100, 0b00100, 0b00100},
	'Z':  {0b11111, 0b00010, 0b00100, 0b01000, 0b11111},
	'[':  {0b01110, 0b01000, 0b01000, 0b01000, 0b01110},
	'\\': {0b10000, 0b01000, 0b00100, 0b00010, 0b00001},
	']':  {0b01110, 0b00010, 0b00010, 0b00010, 0b01110},
	'^':  {0b00100, 0b01010, 0b00000, 0b00000, 0b00000},
	'_':  {0b00000, 0b00000, 0b00000, 0b00000, 0b11111},
	'`':  {0b01000, 0b00100, 0b00000, 0b00000, 0b00000},
	'a':  {0b00000, 0b01110, 0b10010, 0b10010, 0b01111},
	'b':  {0b10000, 0b10000, 0b11110, 0b10001, 0b11110},
	'c':  {0b00000, 0b01111, 0b10000, 0b10000, 0b01111},
	'd':  {0b00001, 0b00001, 0b01111, 0b10001, 0b01111},
	'e':  {0b00000, 0b01110, 0b11110, 0b10000, 0b01110},
	'f':  {0b00110, 0b01000, 0b11100, 0b01000, 0b01000},
	'g':  {0b01111, 0b10001, 0b01111, 0b00001, 0b01110},
	'h':  {0b10000, 0b10000, 0b11110, 0b10001, 0b10001},
	'i':  {0b00100, 0b00000, 0b00100, 0b00100, 0b00100},
	'j':  {0b00010, 0b00000, 0b00010, 0b00010, 0b01100},
	'k':  {0b10000, 0b10010, 0b11100, 0b10010, 0b10001},
	'l':  {0b01100, 0b00100, 0b00100, 0b00100, 0b01110},
	'm':  {0b00000, 0b11010, 0b10101, 0b10101, 0b10101},
	'n':  {0b00000, 0b11110, 0b10001, 0b10001, 0b10001},
	'o':  {0b00000, 0b01110, 0b10001, 0b10001, 0b01110},
	'p':  {0b00000, 0b11110, 0b10001, 0b11110, 0b10000},
	'q':  {0b00000, 0b01111, 0b10001, 0b01111, 0b00001},
	'r':  {0b00000, 0b10110, 0b11000, 0b10000, 0b10000},
	's':  {0b00111, 0b01000, 0b00110, 0b00001, 0b01110},
	't':  {0b01000, 0b11100, 0b01000, 0b01001, 0b00110},
	'u':  {0b00000, 0b10001, 0b10001, 0b10011, 0b01101},
	'v':  {0b00000, 0b10001, 0b10001, 0b01010, 0b00100},
	'w':  {0b00000, 0b10101, 0b10101, 0b10101, 0b01010},
	'x':  {0b00000, 0b10010, 0b01100, 0b01100, 0b10010},
	'y':  {0b10001, 0b10001, 0b01111, 0b00001, 0b01110},
	'z':  {0b00000, 0b11111, 0b00110, 0b01100, 0b11111},
	'{':  {0b00110, 0b00100, 0b01100, 0b00100, 0b00110},
	'|':  {0b00100, 0b00100, 0b00100, 0b00100, 0b00100},
	'}':  {0b01100, 0b00100, 0b00110, 0b00100, 0b01100},
	'~':  {0b00000, 0b01000, 0b10101, 0b00010, 0b00000},
}
