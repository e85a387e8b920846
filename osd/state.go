package osd

// Phase describes where within a frame the state machine currently is.
type Phase int8

const (
	// AwaitingSync means the overlay pass for the current frame is done
	// (or sync was lost) and the detector is waiting for the vertical
	// blank.
	AwaitingSync Phase = iota

	// InBlank means a blanking-width sync pulse or a vertical sync edge
	// was seen and the frame has not started yet.
	InBlank

	// Painting means scan lines are being counted; Position.Line is valid.
	Painting
)

func (p Phase) String() string {
	switch p {
	case AwaitingSync:
		return "awaiting sync"
	case InBlank:
		return "in blank"
	case Painting:
		return "painting"
	}
	return "unknown"
}

// Position is the full state of the line/frame state machine. Line counts
// from 1 at the first scan line after the vertical blank and is only
// meaningful while Painting.
type Position struct {
	Phase Phase
	Line  int
}

// Position packs into a single int32 so the interrupt context can publish it
// with one atomic store: negative is AwaitingSync, zero InBlank, positive the
// Painting line number.
func (p Position) pack() int32 {
	switch p.Phase {
	case AwaitingSync:
		return -1
	case InBlank:
		return 0
	}
	return int32(p.Line)
}

func unpack(v int32) Position {
	switch {
	case v < 0:
		return Position{Phase: AwaitingSync}
	case v == 0:
		return Position{Phase: InBlank}
	}
	return Position{Phase: Painting, Line: int(v)}
}
