// Package osd8x8 holds the 8x8 bitmap font streamed into the video signal.
//
// Glyphs are stored as eight bytes per character, one byte per line, most
// significant bit leftmost, matching the MSB-first order of the pixel
// shifter. The table covers the printable ASCII range 0x20..0x7f.
package osd8x8

const (
	Width  = 8
	Height = 8

	First = 0x20
	Last  = 0x7f
)

// Line returns the pixel pattern of one glyph line. code must be within
// [First, Last] and line within [0, Height).
func Line(code byte, line int) byte {
	return table[int(code-First)<<3|line]
}
