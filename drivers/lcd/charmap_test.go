package lcd_test

import (
	"testing"

	"github.com/penfold42/FF-OSD/drivers/lcd"
)

func TestCharmapDecode(t *testing.T) {
	dec := lcd.A00.NewDecoder()
	for _, tc := range []struct {
		in   []byte
		want string
	}{
		{[]byte("Hello"), "Hello"},
		{[]byte{0x5c}, "¥"},
		{[]byte{0x7e, 0x7f}, "→←"},
		{[]byte{0xdf}, "ﾟ"},
		{[]byte{0xf4}, "Ω"},
		{[]byte{0xff}, "█"},
	} {
		got, err := dec.Bytes(tc.in)
		if err != nil {
			t.Fatalf("decode % x: %v", tc.in, err)
		}
		if string(got) != tc.want {
			t.Errorf("decode % x = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCharmapEncode(t *testing.T) {
	enc := lcd.A00.NewEncoder()
	got, err := enc.Bytes([]byte("A¥→Ω"))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'A', 0x5c, 0x7e, 0xf4}
	if string(got) != string(want) {
		t.Errorf("encode = % x, want % x", got, want)
	}
}
