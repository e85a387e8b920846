package osd

import (
	"sync/atomic"
	"time"

	"github.com/penfold42/FF-OSD/debug"
)

// Sync pulses no wider than this are ordinary line syncs; anything wider is
// vertical blanking.
const blankingPulse = 10 * time.Microsecond

// Detector classifies sync edges and drives the line/frame state machine.
//
// VSync and CSync run in interrupt context and must stay there: they are the
// only mutators of the line state. The main loop observes progress through
// Position, TakeFrames and Height and feeds configuration in through
// SetTiming and PublishHeight.
type Detector struct {
	chain Chain

	state  atomic.Int32 // packed Position
	frames atomic.Int32
	height atomic.Int32

	timing IntrInput[Timing]

	// interrupt context only
	cur   Timing
	pulse time.Duration
}

func NewDetector(chain Chain, t Timing) *Detector {
	d := &Detector{chain: chain}
	d.timing.init(t)
	d.cur = t
	d.state.Store(Position{Phase: AwaitingSync}.pack())
	return d
}

// VSync handles a vertical sync edge. A true vertical sync edge is trusted
// over anything derived from pulse widths: the chain is disarmed and the
// state forced into the blanking phase unconditionally.
//
//go:nosplit
func (d *Detector) VSync() {
	d.chain.Disarm()
	d.state.Store(Position{Phase: InBlank}.pack())
}

// CSync handles a composite/horizontal sync edge. start reports whether this
// is the leading edge of a sync pulse (per configured polarity) and now is
// the edge's timestamp.
//
//go:nosplit
func (d *Detector) CSync(start bool, now time.Duration) {
	if start {
		d.pulse = now
	}
	pos := unpack(d.state.Load())

	if pos.Phase != Painting {
		// Watch both edges so the pulse width can be measured:
		// a line sync is ~5us, blanking pulses are far wider.
		d.chain.WidenWatch()

		switch {
		case start:
			// Width is known at the trailing edge.
		case now-d.pulse > blankingPulse:
			d.state.Store(Position{Phase: InBlank}.pack())
		case pos.Phase == InBlank:
			// Normal-width pulse right after blanking ones: the
			// picture starts here.
			if d.Height() == 0 {
				d.endFrame()
				return
			}
			d.cur, _ = d.timing.Latch()
			d.chain.StartFrame(d.cur)
			d.state.Store(Position{Phase: Painting, Line: 1}.pack())
		}
		return
	}

	// One line per sync pulse: only the leading edge marks a line. The
	// chain narrows the hardware edge watching to match, but a trailing
	// edge can still slip in around the frame boundary.
	if !start {
		return
	}

	line := pos.Line + 1
	switch {
	case line < d.cur.VOff:
		// Above the overlay box.
	case line >= d.cur.VOff+d.Height():
		d.endFrame()
		return
	default:
		// Arm the chain so the upcoming line's output is triggered
		// from this sync edge.
		d.chain.Arm()
		if line == d.cur.VOff {
			d.chain.Rewind()
		}
	}
	d.state.Store(Position{Phase: Painting, Line: line}.pack())
}

//go:nosplit
func (d *Detector) endFrame() {
	d.chain.Disarm()
	d.state.Store(Position{Phase: AwaitingSync}.pack())
	d.frames.Add(1)
}

// ForceEndOfFrame disarms the chain and resets the state machine. The caller
// must hold off the sync interrupts for the duration of the call.
func (d *Detector) ForceEndOfFrame() {
	d.chain.Disarm()
	d.state.Store(Position{Phase: AwaitingSync}.pack())
}

// Position returns the state machine's current position.
func (d *Detector) Position() Position {
	return unpack(d.state.Load())
}

// TakeFrames returns the number of completed overlay passes since the last
// call and resets the counter.
func (d *Detector) TakeFrames() int {
	return int(d.frames.Swap(0))
}

// Height returns the published overlay height for the current frame.
//
//go:nosplit
func (d *Detector) Height() int {
	return int(d.height.Load())
}

// PublishHeight publishes the overlay height rendered into the pixel buffer.
// It must be the last step of frame preparation; the atomic store orders it
// after the chain's box programming, so an edge interrupt never observes one
// without the other.
func (d *Detector) PublishHeight(h int) {
	debug.Assert(h >= 0 && h <= MaxDisplayHeight, "published height out of range")
	d.height.Store(int32(h))
}

// SetTiming requests a new timing configuration. It takes effect at the next
// frame start, never mid-frame.
func (d *Detector) SetTiming(t Timing) {
	d.timing.Store(t)
}

// Timing returns the most recently requested timing configuration.
func (d *Detector) Timing() Timing {
	return d.timing.Last()
}
