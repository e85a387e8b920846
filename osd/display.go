package osd

// Display is the logical overlay content: up to MaxRows rows of text, a
// per-row double-height flag and an on/off switch. Several displays exist at
// once (normal content, configuration menu, notification); the supervisor
// picks one per frame and the core only ever reads that snapshot.
//
// Text bytes outside the printable range render as blanks, so a zeroed
// display is a valid empty one.
type Display struct {
	Rows int
	Cols int

	// Heights holds one bit per row; a set bit selects the 16-line double
	// height glyphs for that row.
	Heights uint8

	On bool

	Text [MaxRows][MaxCols]byte
}

// SetText replaces the display's content with the given rows. Cols is set to
// the longest row; shorter rows are blank-padded by virtue of the renderer
// treating zero bytes as spaces.
func (d *Display) SetText(rows ...string) {
	d.Text = [MaxRows][MaxCols]byte{}
	d.Rows = min(len(rows), MaxRows)
	d.Cols = 0
	for i := 0; i < d.Rows; i++ {
		n := copy(d.Text[i][:], rows[i])
		d.Cols = max(d.Cols, n)
	}
}

// SetRow replaces a single row without touching the others.
func (d *Display) SetRow(row int, s string) {
	if row < 0 || row >= MaxRows {
		return
	}
	d.Text[row] = [MaxCols]byte{}
	n := copy(d.Text[row][:], s)
	d.Cols = max(d.Cols, n)
}

// Height is the number of scan lines the display needs: ten per text row
// (eight glyph lines plus two blank), two lines of margin, and eight extra
// for every double-height row, clamped to MaxDisplayHeight.
func (d *Display) Height() int {
	h := d.Rows*10 + 2
	for row := 0; row < d.Rows && row < MaxRows; row++ {
		if d.Heights&(1<<row) != 0 {
			h += 8
		}
	}
	return min(h, MaxDisplayHeight)
}
