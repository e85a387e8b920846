package osd

import (
	"fmt"
	"io"
	"time"
)

// Content supplies the displays and timing configuration owned by the
// configuration subsystem. The supervisor reads a snapshot once per frame
// boundary and never mutates any of it.
type Content interface {
	ConfigActive() bool
	ConfigDisplay() *Display
	NormalDisplay() *Display
	Timing() Timing
}

const (
	// Declare sync lost after this long without a completed frame, then
	// repeat the forced reset at the same interval until frames complete
	// again.
	syncTimeout = 100 * time.Millisecond

	// Upper bound on the pre-render quiescence wait.
	quiesceTries = 5
)

// Supervisor owns the frame lifecycle and fault recovery. Step performs one
// control loop iteration and is expected to be invoked continuously for the
// lifetime of the process.
type Supervisor struct {
	Det     *Detector
	Chain   Chain
	Clock   Clock
	Buf     *PixelBuffer
	Content Content

	// Notify optionally overrides the selected display while active.
	Notify *Notifier

	// Log receives sync lost/found lines, best effort. May be nil.
	Log io.Writer

	// Input optionally delivers accumulated button bits; OnButtons
	// receives each non-empty snapshot.
	Input     Input
	OnButtons func(Buttons)

	// Critical runs fn with the sync interrupts held off. On hosted
	// builds, where the detector runs on the same goroutine, it may be
	// nil.
	Critical func(fn func())

	lastFrame time.Duration
	lostSync  bool
	started   bool
}

// Step performs one iteration of the control loop.
func (s *Supervisor) Step() {
	if !s.Buf.GuardsIntact() {
		// Keeping the output hardware running from corrupted memory
		// could drive bad timing indefinitely. Stop here.
		panic("osd: pixel buffer guards clobbered")
	}

	if !s.started {
		s.started = true
		s.lastFrame = s.Clock.Now()
	}

	// Avoid touching configuration during the critical display period,
	// which would cause visible glitches.
	s.quiesce()

	if s.Clock.Now()-s.lastFrame > syncTimeout {
		if !s.lostSync {
			s.logf("Sync lost\n")
			s.lostSync = true
		}
		s.lastFrame = s.Clock.Now()
		s.critical(s.Det.ForceEndOfFrame)
	}

	if s.Det.TakeFrames() > 0 {
		if s.lostSync {
			s.logf("Sync found\n")
			s.lostSync = false
		}
		s.lastFrame = s.Clock.Now()
		s.frame()
	}

	if s.Input != nil {
		if b := s.Input.Take(); b != 0 {
			if pressed := b &^ ButtonProcessed; pressed != 0 {
				if s.Notify != nil {
					s.Notify.Clear()
				}
				if s.OnButtons != nil {
					s.OnButtons(pressed)
				}
			}
		}
	}
}

// frame prepares the next frame: picks the active display, renders it and
// publishes the new overlay geometry.
func (s *Supervisor) frame() {
	d := s.Content.NormalDisplay()
	if s.Content.ConfigActive() {
		d = s.Content.ConfigDisplay()
	}
	if s.Notify != nil {
		if n := s.Notify.Active(s.Clock.Now()); n != nil {
			d = n
		}
	}

	height := d.Height()
	Render(s.Buf, d, height)

	if d.On {
		s.Chain.SetBox(d.Cols)
		// Publish the height only after the box width is programmed.
		s.Det.PublishHeight(height)
	} else {
		s.Det.PublishHeight(0)
	}

	// Takes effect at the next frame start.
	s.Det.SetTiming(s.Content.Timing())
}

// quiesce busy-waits, bounded, until the overlay region is not imminently
// starting.
func (s *Supervisor) quiesce() {
	voff := s.Content.Timing().VOff
	for i := 0; i < quiesceTries; i++ {
		pos := s.Det.Position()
		if pos.Phase != Painting || pos.Line < voff-3 {
			return
		}
		s.Clock.Sleep(time.Millisecond)
	}
}

func (s *Supervisor) critical(fn func()) {
	if s.Critical != nil {
		s.Critical(fn)
		return
	}
	fn()
}

func (s *Supervisor) logf(format string, args ...any) {
	if s.Log != nil {
		fmt.Fprintf(s.Log, format, args...)
	}
}
