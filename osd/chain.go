package osd

// Chain abstracts the autonomous hardware timing chain that paints a single
// overlay line. Once armed, the chain is started by the next horizontal sync
// edge and, with no further software involvement, waits the horizontal
// offset, gates the video output on, streams one pixel buffer row out and
// gates the output off again.
//
// The methods in the first group are called from the sync edge interrupt and
// must be nosplit-safe: a bounded number of register writes, no allocation,
// no blocking. The second group is called from the main loop, only while the
// state machine guarantees the chain is quiescent.
type Chain interface {
	// Arm lets the next sync edge trigger one line of overlay output.
	Arm()

	// Disarm detaches the chain from the sync input. An in-flight line
	// still completes.
	Disarm()

	// Rewind points the pixel transfer at the first row of the pixel
	// buffer. Called on exactly the first overlay line of each frame, so
	// a stale pointer self-corrects within one frame.
	Rewind()

	// StartFrame programs the horizontal offsets for this frame's lines
	// and narrows edge watching to the active sync polarity only, since
	// pulse width measurement is not needed mid-frame.
	StartFrame(t Timing)

	// WidenWatch makes the sync input trigger on both edges so pulse
	// width can be measured during the vertical blank.
	WidenWatch()

	// Apply performs the full, idempotent (re)programming of the chain
	// from a timing configuration: horizontal offsets and sync polarity.
	Apply(t Timing)

	// SetBox programs the output-enable duration for a line from the
	// display's column count.
	SetBox(cols int)
}
