// Package amigakbd snoops the Amiga keyboard's synchronous serial lines.
// Keycodes arrive one bit per clock pulse, most significant bit first,
// rotated left by one so the key-up/down flag is sent last, and inverted on
// the wire.
//
// The device can also grab the keyboard: holding the clock line low stops
// the keyboard from talking to the Amiga while the configuration menu has
// its keys.
package amigakbd

import "github.com/penfold42/FF-OSD/osd"

// Keycodes of interest.
const (
	KeyUp    = 0x4c
	KeyDown  = 0x4d
	KeyRight = 0x4e
	KeyLeft  = 0x4f
	KeyHelp  = 0x5f
)

// HoldPin drives the keyboard clock line low while the keyboard is grabbed.
type HoldPin interface {
	Hold(on bool)
}

// Keyboard accumulates snooped keycodes into a pressed-key map. ClockEdge
// runs in interrupt context; everything else belongs to the main loop.
type Keyboard struct {
	// Pin may be nil when the hold feature is unused (host builds).
	Pin HoldPin

	shift  uint8
	nbits  uint8
	keymap [16]uint8
	held   bool
}

// ClockEdge shifts in one bit, sampled on the falling clock edge. dataLow is
// the raw KBDAT level; the wire is active low, so a low level is a one bit.
//
//go:nosplit
func (k *Keyboard) ClockEdge(dataLow bool) {
	k.shift <<= 1
	if dataLow {
		k.shift |= 1
	}
	k.nbits++
	if k.nbits < 8 {
		return
	}
	k.nbits = 0

	// Undo the rotation; the up/down flag arrives last.
	code := k.shift>>1 | k.shift<<7
	idx, bit := code&0x7f>>3, uint8(1)<<(code&7)
	if code&0x80 != 0 {
		k.keymap[idx] &^= bit
	} else {
		k.keymap[idx] |= bit
	}
}

// Pressed reports whether the key with the given code is currently down.
func (k *Keyboard) Pressed(code uint8) bool {
	return k.keymap[code&0x7f>>3]&(1<<(code&7)) != 0
}

// Snapshot maps the navigation keys onto button bits. menu reports the Help
// key separately, since it only acts as select while the menu is closed.
func (k *Keyboard) Snapshot() (b osd.Buttons, menu bool) {
	if k.Pressed(KeyLeft) {
		b |= osd.ButtonLeft
	}
	if k.Pressed(KeyRight) {
		b |= osd.ButtonRight
	}
	if k.Pressed(KeyUp) {
		b |= osd.ButtonSelect
	}
	return b, k.Pressed(KeyHelp)
}

// Grab holds the keyboard's clock line so keypresses reach only the OSD.
func (k *Keyboard) Grab(on bool) {
	if k.held == on {
		return
	}
	k.held = on
	if k.Pin != nil {
		k.Pin.Hold(on)
	}
}

// Held reports whether the keyboard is currently grabbed.
func (k *Keyboard) Held() bool { return k.held }
