package lcd_test

import (
	"testing"

	"github.com/penfold42/FF-OSD/drivers/lcd"
	"github.com/penfold42/FF-OSD/osd"
)

// writeByte feeds one HD44780 byte through the expander model as two
// strobed nibbles, high nibble first.
func writeByte(d *lcd.Decoder, rs bool, b byte) {
	const (
		pinRS = 1 << 0
		pinE  = 1 << 2
	)
	for _, nib := range []byte{b >> 4, b & 0xf} {
		pins := nib << 4
		if rs {
			pins |= pinRS
		}
		d.Push(pins | pinE)
		d.Push(pins)
	}
}

func command(d *lcd.Decoder, b byte) { writeByte(d, false, b) }

func text(d *lcd.Decoder, s string) {
	for i := 0; i < len(s); i++ {
		writeByte(d, true, s[i])
	}
}

func row(d *lcd.Decoder, n int) string {
	return string(d.Display.Text[n][:d.Display.Cols])
}

func newBackpack(t *testing.T) *lcd.Decoder {
	t.Helper()
	d := &lcd.Decoder{}
	d.Init(2, 16)
	d.Start(lcd.AddrBackpack)
	return d
}

func TestBackpackText(t *testing.T) {
	d := newBackpack(t)

	command(d, 0x28) // function set, 4-bit, 2 lines
	command(d, 0x0c) // display on
	command(d, 0x01) // clear
	command(d, 0x80) // DDRAM row 0
	text(d, "FlashFloppy")
	command(d, 0xc0) // DDRAM row 1
	text(d, "DSKA0042.ADF")
	d.Stop()

	if !d.Process() {
		t.Fatal("traffic did not change the display")
	}
	if !d.Display.On {
		t.Error("display control did not switch the overlay on")
	}
	if got := row(d, 0); got != "FlashFloppy     " {
		t.Errorf("row 0 %q", got)
	}
	if got := row(d, 1); got != "DSKA0042.ADF    " {
		t.Errorf("row 1 %q", got)
	}
}

func TestBackpackAddressing(t *testing.T) {
	d := newBackpack(t)

	command(d, 0x80|0x45) // row 1, column 5
	text(d, "x")
	d.Stop()
	d.Process()

	if got := d.Display.Text[1][5]; got != 'x' {
		t.Errorf("text at row 1 col 5 = %q", got)
	}
}

func TestBackpackSpecialChars(t *testing.T) {
	d := newBackpack(t)

	command(d, 0x80)
	writeByte(d, true, 0x7e) // right arrow
	writeByte(d, true, 0xff) // filled block
	writeByte(d, true, 0xa5) // katakana, no stand-in
	d.Stop()
	d.Process()

	if got := d.Display.Text[0][0]; got != '>' {
		t.Errorf("arrow mapped to %q, want '>'", got)
	}
	if got := d.Display.Text[0][1]; got != 0x7f {
		t.Errorf("block mapped to %#02x, want 0x7f", got)
	}
	if got := d.Display.Text[0][2]; got != ' ' {
		t.Errorf("katakana mapped to %q, want space", got)
	}
}

func TestBackpackIgnoresCGRAM(t *testing.T) {
	d := newBackpack(t)

	command(d, 0x80)
	text(d, "A")
	command(d, 0x40) // CGRAM address
	text(d, "Z")     // glyph definition data, not text
	command(d, 0x81)
	text(d, "B")
	d.Stop()
	d.Process()

	if got := row(d, 0); got != "AB              " {
		t.Errorf("row 0 %q, want CGRAM data skipped", got)
	}
}

func TestDirectProtocol(t *testing.T) {
	d := &lcd.Decoder{}
	d.Init(2, 16)

	d.Start(lcd.AddrDirect)
	d.Push(0x06) // display
	d.Push(1)
	d.Push(0x04) // cursor
	d.Push(1)
	d.Push(3)
	d.Push('O')
	d.Push('K')
	d.Push(0x05) // buttons
	d.Push(byte(osd.ButtonLeft | osd.ButtonSelect))
	d.Stop()
	d.Process()

	if !d.Display.On {
		t.Error("display command ignored")
	}
	if got := string(d.Display.Text[1][3:5]); got != "OK" {
		t.Errorf("text %q, want OK at row 1 col 3", got)
	}
	if got := d.Buttons(); got != osd.ButtonLeft|osd.ButtonSelect {
		t.Errorf("buttons %#02x", got)
	}
}

func TestDirectGeometry(t *testing.T) {
	d := &lcd.Decoder{}
	d.Init(2, 16)

	d.Start(lcd.AddrDirect)
	d.Push(0x02) // rows
	d.Push(4)
	d.Push(0x03) // columns
	d.Push(20)
	d.Stop()
	if !d.Process() {
		t.Fatal("geometry change not reported")
	}
	if d.Display.Rows != 4 || d.Display.Cols != 20 {
		t.Errorf("geometry %dx%d, want 4x20",
			d.Display.Rows, d.Display.Cols)
	}
}

func TestOtherAddressIgnored(t *testing.T) {
	d := &lcd.Decoder{}
	d.Init(2, 16)

	d.Start(0x50)
	d.Push(0xff)
	d.Stop()
	if d.Process() {
		t.Fatal("foreign traffic changed the display")
	}
}

func TestRingOverflow(t *testing.T) {
	d := &lcd.Decoder{}
	d.Init(2, 16)

	for i := 0; i < 2000; i++ {
		d.Push(0)
	}
	if d.Dropped() == 0 {
		t.Fatal("overflow not counted")
	}
	if d.Dropped() != 2000-512 {
		t.Errorf("dropped %d, want %d", d.Dropped(), 2000-512)
	}
}
