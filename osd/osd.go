// Package osd implements the real-time core of the FF-OSD overlay device:
// sync edge classification, the per-line frame state machine, the frame
// renderer and the supervising control loop.
//
// The core is split along execution contexts. [Detector.VSync] and
// [Detector.CSync] run in interrupt context, never block and touch shared
// state only through single-word atomics. Everything else belongs to the
// main loop, which is the only context allowed to do unbounded work such as
// rendering and logging.
package osd

import "time"

const (
	// MaxDisplayHeight bounds the number of scan lines the overlay box may
	// occupy within a frame.
	MaxDisplayHeight = 52

	// MaxRows and MaxCols bound the text content of a single display.
	MaxRows = 4
	MaxCols = 40

	// BufWords is the width of one pixel buffer row in 16-bit words. The
	// extra word past the last character pair keeps the serial shifter fed
	// with zeroes while the output gate closes.
	BufWords = MaxCols/2 + 1
)

// Timing locates the overlay box within the video signal. It is owned by the
// configuration subsystem and handed to the core, which applies it only at
// frame boundaries.
type Timing struct {
	// HOff is the delay from a line's sync edge to the left edge of the
	// overlay box, in units of 20 system clock cycles.
	HOff int

	// VOff is the number of scan lines from the end of the vertical blank
	// to the top of the overlay box.
	VOff int

	// Polarity is true if the sync pulses are active high.
	Polarity bool
}

// Clock is a monotonic time source with microsecond resolution. Sleep is a
// bounded busy-wait, not a scheduling point.
type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}

// Buttons is a set of sticky button bits accumulated in interrupt or timer
// context until the supervisor collects them.
type Buttons uint8

const (
	ButtonLeft Buttons = 1 << iota
	ButtonRight
	ButtonSelect

	// ButtonProcessed marks that the sampler has run at least once since
	// the last collection. It carries no key information.
	ButtonProcessed Buttons = 0x80
)

// Input delivers accumulated button state. Take must atomically snapshot and
// clear the pending bits.
type Input interface {
	Take() Buttons
}
