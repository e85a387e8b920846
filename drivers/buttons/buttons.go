// Package buttons decodes the rotary encoder and debounces the select
// switch. Sampling runs from a periodic 5 ms timer; the accumulated button
// bits stay sticky until the supervisor collects them.
package buttons

import (
	"sync/atomic"

	"github.com/penfold42/FF-OSD/osd"
)

// RotaryMode selects how many Gray code transitions the encoder emits per
// detent.
type RotaryMode int

const (
	RotaryNone RotaryMode = iota
	RotaryFull
	RotaryHalf
	RotaryQuarter
)

// Each table maps a 4-bit (previous<<2 | current) encoder state to the
// button bits it produces, two bits per state. The encoder outputs a Gray
// code counting clockwise: 00-01-11-10.
var rotaryTransitions = [...]uint32{
	RotaryNone:    0x00000000,
	RotaryFull:    0x20000100, // 4 transitions (full cycle) per detent
	RotaryHalf:    0x24000018, // 2 transitions (half cycle) per detent
	RotaryQuarter: 0x24428118, // 1 transition (quarter cycle) per detent
}

// Sampler accumulates button state from periodic input samples. Sample runs
// in timer interrupt context; Take is the main loop's snapshot-and-clear.
type Sampler struct {
	Mode RotaryMode

	debounce uint16
	rotary   uint8
	acc      atomic.Uint32
}

// Sample records one 5 ms poll of the input pins. clk and dat are the
// encoder phases, sel the select switch; all read true at a high line level
// and the switch is wired active low.
//
//go:nosplit
func (s *Sampler) Sample(clk, dat, sel bool) {
	b := osd.ButtonProcessed

	// The switch counts as pressed only after 16 consecutive low samples
	// (16 * 5 ms == 80 ms). A set bit records a pressed sample, so the
	// zero value starts out idle.
	s.debounce <<= 1
	if !sel {
		s.debounce |= 1
	}
	if s.debounce == 0xffff {
		b |= osd.ButtonSelect
	}

	var phase uint8
	if clk {
		phase |= 1
	}
	if dat {
		phase |= 2
	}
	s.rotary = (s.rotary<<2 | phase) & 15
	b |= osd.Buttons(rotaryTransitions[s.Mode] >> (s.rotary << 1) & 3)

	s.acc.Or(uint32(b))
}

// Take implements osd.Input.
func (s *Sampler) Take() osd.Buttons {
	return osd.Buttons(s.acc.Swap(0))
}

// Inject folds externally produced button bits (e.g. remoted over I2C) into
// the accumulator.
func (s *Sampler) Inject(b osd.Buttons) {
	s.acc.Or(uint32(b))
}
