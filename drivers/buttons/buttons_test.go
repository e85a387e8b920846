package buttons_test

import (
	"testing"
	"time"

	"github.com/penfold42/FF-OSD/drivers/buttons"
	"github.com/penfold42/FF-OSD/internal/vidsig"
	"github.com/penfold42/FF-OSD/osd"
)

// feedPhases runs the sampler through a sequence of encoder phase values,
// select switch released.
func feedPhases(s *buttons.Sampler, phases ...uint8) {
	for _, p := range phases {
		s.Sample(p&1 != 0, p&2 != 0, true)
	}
}

// One detent clockwise and counter-clockwise through the Gray code
// 00-01-11-10.
var (
	cwCycle  = []uint8{0, 1, 3, 2, 0}
	ccwCycle = []uint8{0, 2, 3, 1, 0}
)

func TestRotaryFull(t *testing.T) {
	s := &buttons.Sampler{Mode: buttons.RotaryFull}

	feedPhases(s, cwCycle...)
	if got := s.Take() &^ osd.ButtonProcessed; got != osd.ButtonRight {
		t.Errorf("clockwise cycle: %#02x, want %#02x", got, osd.ButtonRight)
	}

	feedPhases(s, ccwCycle...)
	if got := s.Take() &^ osd.ButtonProcessed; got != osd.ButtonLeft {
		t.Errorf("counter-clockwise cycle: %#02x, want %#02x", got, osd.ButtonLeft)
	}
}

func TestRotaryNone(t *testing.T) {
	s := &buttons.Sampler{Mode: buttons.RotaryNone}
	feedPhases(s, cwCycle...)
	feedPhases(s, ccwCycle...)
	if got := s.Take() &^ osd.ButtonProcessed; got != 0 {
		t.Errorf("rotary disabled but produced %#02x", got)
	}
}

func TestRotaryQuarter(t *testing.T) {
	s := &buttons.Sampler{Mode: buttons.RotaryQuarter}
	// In quarter mode every phase step is a detent, so one full cycle
	// must report a movement even if sampled one transition at a time.
	feedPhases(s, 0, 1)
	if got := s.Take() &^ osd.ButtonProcessed; got == 0 {
		t.Error("quarter mode: single transition produced no movement")
	}
}

func TestSelectDebounce(t *testing.T) {
	s := &buttons.Sampler{}

	// Idle samples never produce a press.
	for i := 0; i < 32; i++ {
		s.Sample(false, false, true)
	}
	if got := s.Take() &^ osd.ButtonProcessed; got != 0 {
		t.Fatalf("idle produced %#02x", got)
	}

	// A press registers only after 16 consecutive pressed samples.
	for i := 0; i < 15; i++ {
		s.Sample(false, false, false)
	}
	if got := s.Take() &^ osd.ButtonProcessed; got != 0 {
		t.Fatal("press registered before the debounce period")
	}
	s.Sample(false, false, false)
	if got := s.Take() &^ osd.ButtonProcessed; got != osd.ButtonSelect {
		t.Fatalf("debounced press: %#02x, want %#02x", got, osd.ButtonSelect)
	}

	// A bounce restarts the period.
	s.Sample(false, false, true)
	for i := 0; i < 15; i++ {
		s.Sample(false, false, false)
	}
	if got := s.Take() &^ osd.ButtonProcessed; got != 0 {
		t.Error("press registered again before a full debounce period")
	}
}

func TestTakeClearsAndInject(t *testing.T) {
	s := &buttons.Sampler{}
	s.Sample(false, false, true)
	if got := s.Take(); got&osd.ButtonProcessed == 0 {
		t.Error("sample did not mark the snapshot as processed")
	}
	if got := s.Take(); got != 0 {
		t.Errorf("second take returned %#02x, want 0", got)
	}

	s.Inject(osd.ButtonRight)
	if got := s.Take(); got != osd.ButtonRight {
		t.Errorf("injected bits came back as %#02x", got)
	}
}

// recPins records emulated pin transitions.
type recPins struct {
	asserted [3]bool
	events   []string
}

func (p *recPins) Set(pin int, on bool) {
	p.asserted[pin] = on
	name := []string{"left", "right", "select"}[pin]
	if on {
		p.events = append(p.events, "+"+name)
	} else {
		p.events = append(p.events, "-"+name)
	}
}

func TestGotekEmulation(t *testing.T) {
	var clk vidsig.Clock
	pins := &recPins{}
	e := buttons.Emulator{Pins: pins, Clock: &clk}

	e.Update(0, false) // arms emulation, no keys down
	e.Update(osd.ButtonLeft, false)
	if !pins.asserted[buttons.PinLeft] {
		t.Fatal("left pin not asserted")
	}

	// A release before the minimum press duration stays asserted.
	clk.Advance(50 * time.Millisecond)
	e.Update(0, false)
	if !pins.asserted[buttons.PinLeft] {
		t.Fatal("pin released before the minimum press duration")
	}
	clk.Advance(200 * time.Millisecond)
	e.Update(0, false)
	if pins.asserted[buttons.PinLeft] {
		t.Fatal("pin still asserted after release")
	}
}

func TestGotekSuspendedInMenu(t *testing.T) {
	var clk vidsig.Clock
	pins := &recPins{}
	e := buttons.Emulator{Pins: pins, Clock: &clk}

	e.Update(0, false)
	e.Update(osd.ButtonLeft, true) // menu open
	if pins.asserted[buttons.PinLeft] {
		t.Fatal("keys forwarded while the menu is open")
	}

	// Leaving the menu with a key still down must not forward it; only
	// after a full release does emulation resume.
	e.Update(osd.ButtonLeft, false)
	if pins.asserted[buttons.PinLeft] {
		t.Fatal("key forwarded before release after leaving the menu")
	}
	e.Update(0, false)
	e.Update(osd.ButtonLeft, false)
	if !pins.asserted[buttons.PinLeft] {
		t.Fatal("emulation did not resume after key release")
	}
}
