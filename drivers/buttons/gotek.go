package buttons

import (
	"time"

	"github.com/penfold42/FF-OSD/osd"
)

// Gotek button pin indexes, matching the open-drain outputs wired across the
// Gotek's own buttons.
const (
	PinLeft = iota
	PinRight
	PinSelect

	numPins
)

// A release is held off until the press has lasted this long, so that short
// key taps still register with the Gotek's own debouncing.
const minPress = 200 * time.Millisecond

// PinDriver asserts or releases one emulated button output.
type PinDriver interface {
	Set(pin int, asserted bool)
}

// Emulator presses the Gotek's buttons on behalf of keyboard input. While
// the configuration menu is open the keyboard drives the menu instead, and
// emulation only resumes once all keys have been released.
type Emulator struct {
	Pins  PinDriver
	Clock osd.Clock

	active bool
	state  [numPins]press
}

type press struct {
	pressed bool
	since   time.Duration
}

// Update drives the emulated buttons from the current key state.
func (e *Emulator) Update(keys osd.Buttons, configActive bool) {
	if configActive {
		e.active = false
	} else if !e.active && keys == 0 {
		e.active = true // only after keys are released
	}
	e.button(keys&osd.ButtonLeft != 0, PinLeft)
	e.button(keys&osd.ButtonRight != 0, PinRight)
	e.button(keys&osd.ButtonSelect != 0, PinSelect)
}

func (e *Emulator) button(want bool, pin int) {
	want = want && e.active
	st := &e.state[pin]
	if want == st.pressed {
		return
	}
	if want {
		st.since = e.Clock.Now()
		st.pressed = true
		e.Pins.Set(pin, true)
	} else if e.Clock.Now()-st.since > minPress {
		st.pressed = false
		e.Pins.Set(pin, false)
	}
}
