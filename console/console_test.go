package console_test

import (
	"strings"
	"testing"

	"github.com/penfold42/FF-OSD/console"
)

func TestWriteDrain(t *testing.T) {
	c := console.New()
	c.Write([]byte("Sync lost\n"))
	c.Write([]byte("Sync found\n"))

	var out strings.Builder
	for c.Drain(&out, 4) > 0 {
	}
	if got := out.String(); got != "Sync lost\nSync found\n" {
		t.Errorf("drained %q", got)
	}
}

func TestDropWholeWrites(t *testing.T) {
	c := console.New()
	big := strings.Repeat("x", 1000)
	if _, err := c.Write([]byte(big)); err != nil {
		t.Fatal(err)
	}
	c.Write([]byte(strings.Repeat("y", 100))) // does not fit, dropped whole

	if got := c.Dropped(); got != 1 {
		t.Fatalf("dropped %d writes, want 1", got)
	}

	var out strings.Builder
	for c.Drain(&out, 64) > 0 {
	}
	if got := out.String(); got != big {
		t.Errorf("drained %d bytes, want the first write intact", len(got))
	}
	if strings.Contains(out.String(), "y") {
		t.Error("partial write leaked into the log")
	}
}

// shortWriter accepts a single byte per call, like a busy UART.
type shortWriter struct{ out []byte }

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	w.out = append(w.out, p[0])
	return 1, nil
}

func TestDrainShortWrites(t *testing.T) {
	c := console.New()
	c.Write([]byte("hello"))

	w := &shortWriter{}
	for c.Drain(w, 16) > 0 {
	}
	if string(w.out) != "hello" {
		t.Errorf("drained %q", w.out)
	}
}

func TestRingWraps(t *testing.T) {
	c := console.New()
	var out strings.Builder
	// Push well past the ring size in small writes, draining as we go.
	for i := 0; i < 100; i++ {
		c.Write([]byte("0123456789abcdef0123456789abcdef"))
		for c.Drain(&out, 1024) > 0 {
		}
	}
	if c.Dropped() != 0 {
		t.Fatalf("dropped %d writes with prompt draining", c.Dropped())
	}
	if got := out.Len(); got != 3200 {
		t.Errorf("drained %d bytes, want 3200", got)
	}
}
