package osd_test

import (
	"slices"
	"testing"
	"time"

	"github.com/penfold42/FF-OSD/osd"
)

// recChain records timer chain calls for assertions.
type recChain struct {
	calls      []string
	programmed []osd.Timing
	armed      bool
	box        int
	timing     osd.Timing
}

func (c *recChain) Arm()    { c.calls = append(c.calls, "arm"); c.armed = true }
func (c *recChain) Disarm() { c.calls = append(c.calls, "disarm"); c.armed = false }
func (c *recChain) Rewind() { c.calls = append(c.calls, "rewind") }
func (c *recChain) StartFrame(t osd.Timing) {
	c.calls = append(c.calls, "start")
	c.timing = t
	c.programmed = append(c.programmed, t)
}
func (c *recChain) WidenWatch() {}
func (c *recChain) Apply(t osd.Timing) {
	c.calls = append(c.calls, "apply")
	c.programmed = append(c.programmed, t)
}
func (c *recChain) SetBox(cols int) { c.box = cols }

func (c *recChain) count(name string) int {
	n := 0
	for _, s := range c.calls {
		if s == name {
			n++
		}
	}
	return n
}

// pulse feeds both edges of one sync pulse and returns the time after it.
func pulse(d *osd.Detector, at, width time.Duration) time.Duration {
	d.CSync(true, at)
	d.CSync(false, at+width)
	return at + width
}

const (
	linePeriod  = 64 * time.Microsecond
	normalPulse = 5 * time.Microsecond
	broadPulse  = 30 * time.Microsecond
)

func TestFrameStart(t *testing.T) {
	chain := &recChain{}
	d := osd.NewDetector(chain, osd.Timing{HOff: 42, VOff: 5})
	d.PublishHeight(22)

	now := time.Duration(0)
	pulse(d, now, broadPulse)
	if got := d.Position().Phase; got != osd.InBlank {
		t.Fatalf("after broad pulse: %v, want %v", got, osd.InBlank)
	}

	now += linePeriod
	pulse(d, now, normalPulse)
	pos := d.Position()
	if pos.Phase != osd.Painting || pos.Line != 1 {
		t.Fatalf("after first normal pulse: %+v, want painting line 1", pos)
	}
	if chain.count("start") != 1 {
		t.Errorf("StartFrame calls: %d, want 1", chain.count("start"))
	}
}

func TestZeroHeightSkipsFrame(t *testing.T) {
	chain := &recChain{}
	d := osd.NewDetector(chain, osd.Timing{HOff: 42, VOff: 5})

	pulse(d, 0, broadPulse)
	pulse(d, linePeriod, normalPulse)

	if got := d.Position().Phase; got != osd.AwaitingSync {
		t.Fatalf("phase %v, want %v", got, osd.AwaitingSync)
	}
	if got := d.TakeFrames(); got != 1 {
		t.Errorf("frames %d, want 1", got)
	}
	if chain.count("start") != 0 {
		t.Error("StartFrame called for a zero height frame")
	}
}

func TestLineProgress(t *testing.T) {
	const voff, height = 5, 22
	chain := &recChain{}
	d := osd.NewDetector(chain, osd.Timing{HOff: 42, VOff: voff})
	d.PublishHeight(height)

	now := pulse(d, 0, broadPulse)
	now = pulse(d, now+linePeriod, normalPulse) // painting, line 1

	line := 1
	for d.Position().Phase == osd.Painting {
		now += linePeriod
		d.CSync(true, now)
		line++

		switch {
		case line < voff:
			if chain.armed {
				t.Fatalf("line %d: armed above the overlay box", line)
			}
		case line == voff:
			if !chain.armed {
				t.Fatalf("line %d: chain not armed at box top", line)
			}
			if chain.count("rewind") != 1 {
				t.Fatalf("line %d: rewind calls %d, want 1",
					line, chain.count("rewind"))
			}
		case line < voff+height:
			if !chain.armed {
				t.Fatalf("line %d: chain not armed inside the box", line)
			}
		}
		if line > voff+height {
			t.Fatal("state machine ran past the end of the box")
		}
	}

	if line != voff+height {
		t.Errorf("frame ended at line %d, want %d", line, voff+height)
	}
	if chain.armed {
		t.Error("chain still armed after end of frame")
	}
	if got := d.TakeFrames(); got != 1 {
		t.Errorf("frames %d, want 1", got)
	}
	if chain.count("rewind") != 1 {
		t.Errorf("rewind calls %d, want 1", chain.count("rewind"))
	}
}

// TestLineProgressFullPulses feeds both edges of every sync pulse, as the
// edge interrupt sees them around the frame boundary, and checks that each
// physical line still counts exactly once.
func TestLineProgressFullPulses(t *testing.T) {
	const voff, height = 5, 22
	chain := &recChain{}
	d := osd.NewDetector(chain, osd.Timing{HOff: 42, VOff: voff})
	d.PublishHeight(height)

	now := pulse(d, 0, broadPulse)
	now = pulse(d, now+linePeriod, normalPulse) // painting, line 1

	lines := 1
	for d.Position().Phase == osd.Painting {
		now = pulse(d, now+linePeriod, normalPulse)
		lines++
		if lines > voff+height {
			t.Fatal("state machine ran past the end of the box")
		}
	}

	if lines != voff+height {
		t.Errorf("frame spanned %d lines, want %d", lines, voff+height)
	}
	if got := chain.count("arm"); got != height {
		t.Errorf("arm calls %d, want one per overlay line (%d)", got, height)
	}
	if got := chain.count("rewind"); got != 1 {
		t.Errorf("rewind calls %d, want 1", got)
	}
	if got := d.TakeFrames(); got != 1 {
		t.Errorf("frames %d, want 1", got)
	}

	// The trailing edge of the pulse that ended the frame, and the normal
	// pulses of the rest of the field, must not restart the overlay before
	// the next vertical blanking.
	for i := 0; i < 20; i++ {
		now = pulse(d, now+linePeriod, normalPulse)
	}
	if got := d.Position().Phase; got != osd.AwaitingSync {
		t.Errorf("phase %v after the box, want %v", got, osd.AwaitingSync)
	}
	if got := d.TakeFrames(); got != 0 {
		t.Errorf("overlay repainted %d times within one field", got)
	}
}

func TestVSyncOverrides(t *testing.T) {
	chain := &recChain{}
	d := osd.NewDetector(chain, osd.Timing{HOff: 42, VOff: 5})
	d.PublishHeight(22)

	now := pulse(d, 0, broadPulse)
	pulse(d, now+linePeriod, normalPulse)
	if d.Position().Phase != osd.Painting {
		t.Fatal("setup failed to reach painting")
	}

	d.VSync()
	if got := d.Position().Phase; got != osd.InBlank {
		t.Fatalf("phase %v, want %v", got, osd.InBlank)
	}
	if chain.armed {
		t.Error("chain still armed after vertical sync")
	}
}

func TestTimingAppliedAtFrameBoundary(t *testing.T) {
	chain := &recChain{}
	d := osd.NewDetector(chain, osd.Timing{HOff: 42, VOff: 5})
	d.PublishHeight(12)

	now := pulse(d, 0, broadPulse)
	now = pulse(d, now+linePeriod, normalPulse)
	if chain.timing.VOff != 5 {
		t.Fatalf("first frame VOff %d, want 5", chain.timing.VOff)
	}

	// Mid-frame reconfiguration must not take effect before the next
	// frame start.
	d.SetTiming(osd.Timing{HOff: 42, VOff: 8})
	for d.Position().Phase == osd.Painting {
		now += linePeriod
		d.CSync(true, now)
	}
	if chain.timing.VOff != 5 {
		t.Errorf("timing changed mid-frame: VOff %d", chain.timing.VOff)
	}

	now = pulse(d, now+linePeriod, broadPulse)
	pulse(d, now+linePeriod, normalPulse)
	if chain.timing.VOff != 8 {
		t.Errorf("second frame VOff %d, want 8", chain.timing.VOff)
	}
}

// An unchanged timing configuration must program the chain identically on
// every application, frame after frame.
func TestUnchangedTimingProgramsIdentically(t *testing.T) {
	cfg := osd.Timing{HOff: 42, VOff: 5, Polarity: true}
	chain := &recChain{}
	d := osd.NewDetector(chain, cfg)
	d.PublishHeight(12)

	frame := func(at time.Duration) time.Duration {
		now := pulse(d, at, broadPulse)
		now = pulse(d, now+linePeriod, normalPulse)
		for d.Position().Phase == osd.Painting {
			now = pulse(d, now+linePeriod, normalPulse)
		}
		return now
	}

	chain.Apply(cfg)
	now := frame(0)
	first := slices.Clone(chain.calls)
	firstProg := slices.Clone(chain.programmed)

	chain.calls, chain.programmed = nil, nil
	d.SetTiming(cfg)
	chain.Apply(cfg)
	frame(now + linePeriod)

	if !slices.Equal(chain.calls, first) {
		t.Errorf("second round calls %v, want %v", chain.calls, first)
	}
	if !slices.Equal(chain.programmed, firstProg) {
		t.Errorf("second round programmed %v, want %v",
			chain.programmed, firstProg)
	}
}

func TestForceEndOfFrame(t *testing.T) {
	chain := &recChain{}
	d := osd.NewDetector(chain, osd.Timing{HOff: 42, VOff: 5})
	d.PublishHeight(22)

	now := pulse(d, 0, broadPulse)
	pulse(d, now+linePeriod, normalPulse)

	d.ForceEndOfFrame()
	if got := d.Position().Phase; got != osd.AwaitingSync {
		t.Fatalf("phase %v, want %v", got, osd.AwaitingSync)
	}
	if chain.armed {
		t.Error("chain still armed after forced end of frame")
	}
	if got := d.TakeFrames(); got != 0 {
		t.Errorf("forced reset counted as a frame: %d", got)
	}
}
