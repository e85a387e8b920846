package osd_test

import (
	"testing"

	"github.com/penfold42/FF-OSD/fonts/osd8x8"
	"github.com/penfold42/FF-OSD/osd"
)

func TestDisplayHeight(t *testing.T) {
	for _, tc := range []struct {
		name    string
		rows    int
		heights uint8
		want    int
	}{
		{"one row", 1, 0, 12},
		{"two rows", 2, 0, 22},
		{"two rows one double", 2, 1 << 0, 30},
		{"two rows both double", 2, 3, 38},
		{"clamped", 4, 0xf, osd.MaxDisplayHeight},
	} {
		d := osd.Display{Rows: tc.rows, Heights: tc.heights}
		if got := d.Height(); got != tc.want {
			t.Errorf("%s: height %d, want %d", tc.name, got, tc.want)
		}
	}
}

// rowWord packs two adjacent glyph line bytes the way the renderer does.
func rowWord(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func TestRenderLayout(t *testing.T) {
	d := &osd.Display{Rows: 2, Cols: 2, On: true}
	d.SetText("AB", "yz")

	var buf osd.PixelBuffer
	height := d.Height()
	if height != 22 {
		t.Fatalf("height %d, want 22", height)
	}
	osd.Render(&buf, d, height)

	blank := []int{0, 1, 10, 11, 20, 21}
	for _, y := range blank {
		for x, w := range buf.Row[y] {
			if w != 0 {
				t.Errorf("line %d word %d = %#04x, want blank", y, x, w)
			}
		}
	}

	for gl := 0; gl < 8; gl++ {
		want := rowWord(osd8x8.Line('A', gl), osd8x8.Line('B', gl))
		if got := buf.Row[2+gl][0]; got != want {
			t.Errorf("row 0 glyph line %d = %#04x, want %#04x", gl, got, want)
		}
		want = rowWord(osd8x8.Line('y', gl), osd8x8.Line('z', gl))
		if got := buf.Row[12+gl][0]; got != want {
			t.Errorf("row 1 glyph line %d = %#04x, want %#04x", gl, got, want)
		}
	}
}

func TestRenderDoubleHeight(t *testing.T) {
	d := &osd.Display{Rows: 1, Cols: 1, Heights: 1, On: true}
	d.SetText("W")

	var buf osd.PixelBuffer
	osd.Render(&buf, d, d.Height())

	// Each glyph line paints two scan lines.
	for gl := 0; gl < 8; gl++ {
		want := rowWord(osd8x8.Line('W', gl), 0)
		for dup := 0; dup < 2; dup++ {
			y := 2 + gl*2 + dup
			if got := buf.Row[y][0]; got != want {
				t.Errorf("line %d = %#04x, want %#04x", y, got, want)
			}
		}
	}
}

func TestRenderUnprintable(t *testing.T) {
	d := &osd.Display{Rows: 1, Cols: 3, On: true}
	d.Text[0] = [osd.MaxCols]byte{0x10, 0x80, 0xff}

	var buf osd.PixelBuffer
	osd.Render(&buf, d, d.Height())

	for y := 0; y < d.Height(); y++ {
		for x, w := range buf.Row[y] {
			if w != 0 {
				t.Errorf("line %d word %d = %#04x, want blank", y, x, w)
			}
		}
	}
}

func TestRenderStaysInBounds(t *testing.T) {
	d := &osd.Display{Rows: osd.MaxRows, Cols: osd.MaxCols, Heights: 0xf, On: true}
	for r := 0; r < osd.MaxRows; r++ {
		for c := 0; c < osd.MaxCols; c++ {
			d.Text[r][c] = 0x7f
		}
	}

	var buf osd.PixelBuffer
	buf.InitGuards()
	osd.Render(&buf, d, d.Height())
	if !buf.GuardsIntact() {
		t.Fatal("render clobbered the buffer guards")
	}
}
