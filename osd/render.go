package osd

import (
	"github.com/penfold42/FF-OSD/debug"
	"github.com/penfold42/FF-OSD/fonts/osd8x8"
)

// RenderLine draws overlay scan line y of the given display into the pixel
// buffer. Lines outside any text row come out all zero, as do the two-line
// margins at the top and bottom of the box and the two-line separators
// between rows.
func RenderLine(buf *PixelBuffer, y int, d *Display) {
	debug.Assert(y >= 0 && y < MaxDisplayHeight, "scan line out of range")
	line := buf.Row[y][:]
	clear(line)

	// Top two lines of the box are blank.
	y -= 2

	// Walk the rows to find the one containing this line.
	row := 0
	for ; row < d.Rows && row < MaxRows; row++ {
		nr := 8
		if d.Heights&(1<<row) != 0 {
			nr = 16
		}
		if y < 0 {
			return
		}
		if y < nr {
			break
		}
		y -= nr + 2 // two blank lines between text rows
	}

	// Past the last row; the final two lines are blank.
	if row >= d.Rows || row >= MaxRows {
		return
	}

	// A double-height row repeats each glyph line twice.
	if d.Heights&(1<<row) != 0 {
		y /= 2
	}

	for x := 0; x < d.Cols && x < MaxCols; x++ {
		c := d.Text[row][x]
		if c < 0x20 || c > 0x7f {
			c = 0x20
		}
		// Two adjacent columns pack into one transfer word, first
		// character in the high byte.
		shift := 8 - (x&1)*8
		line[x/2] |= uint16(osd8x8.Line(c, y)) << shift
	}
}

// Render fills the pixel buffer for a frame of the given height.
func Render(buf *PixelBuffer, d *Display, height int) {
	for y := 0; y < height && y < MaxDisplayHeight; y++ {
		RenderLine(buf, y, d)
	}
}
