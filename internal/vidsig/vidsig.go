// Package vidsig generates composite sync edge streams for running the
// overlay pipeline without hardware. The timings are PAL-shaped but not
// standards-accurate; the consumers only care about pulse widths and line
// counts.
package vidsig

import (
	"sync"
	"time"
)

// Sink consumes sync edges the way the interrupt handlers feed them on
// hardware. Start is true at the leading edge of a pulse.
type Sink interface {
	CSync(start bool, now time.Duration)
}

// Generator produces the edge stream of a video signal. The zero value
// generates 312 lines of 64us with 4.7us sync pulses and five broad
// equalization lines per frame.
type Generator struct {
	Line       time.Duration // line period
	Pulse      time.Duration // normal sync pulse width
	Broad      time.Duration // blanking pulse width
	BlankLines int           // broad pulses at the top of a frame
	FrameLines int           // total lines per frame

	now  time.Duration
	line int
}

func (g *Generator) setDefaults() {
	if g.Line == 0 {
		g.Line = 64 * time.Microsecond
	}
	if g.Pulse == 0 {
		g.Pulse = 4700 * time.Nanosecond
	}
	if g.Broad == 0 {
		g.Broad = 30 * time.Microsecond
	}
	if g.BlankLines == 0 {
		g.BlankLines = 5
	}
	if g.FrameLines == 0 {
		g.FrameLines = 312
	}
}

// Now returns the timestamp of the next edge to be generated.
func (g *Generator) Now() time.Duration { return g.now }

// NextLine emits the two edges of one line's sync pulse and advances one
// line period. It returns true at the end of a frame.
func (g *Generator) NextLine(sink Sink) (endOfFrame bool) {
	g.setDefaults()
	width := g.Pulse
	if g.line < g.BlankLines {
		width = g.Broad
	}
	sink.CSync(true, g.now)
	sink.CSync(false, g.now+width)
	g.now += g.Line
	g.line++
	if g.line >= g.FrameLines {
		g.line = 0
		return true
	}
	return false
}

// Frame emits lines until the end of the current frame.
func (g *Generator) Frame(sink Sink) {
	for !g.NextLine(sink) {
	}
}

// Clock is a manually advanced time source for the simulated pipeline.
// Sleep advances it instead of blocking.
type Clock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Sleep(d time.Duration) { c.Advance(d) }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Set moves the clock to t. It never goes backwards.
func (c *Clock) Set(t time.Duration) {
	c.mu.Lock()
	if t > c.now {
		c.now = t
	}
	c.mu.Unlock()
}
