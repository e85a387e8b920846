package vidsig_test

import (
	"testing"
	"time"

	"github.com/penfold42/FF-OSD/internal/vidsig"
)

type edge struct {
	start bool
	at    time.Duration
}

type recSink struct{ edges []edge }

func (s *recSink) CSync(start bool, now time.Duration) {
	s.edges = append(s.edges, edge{start, now})
}

func TestGeneratorShape(t *testing.T) {
	var gen vidsig.Generator
	sink := &recSink{}
	gen.Frame(sink)

	if got := len(sink.edges); got != 2*312 {
		t.Fatalf("%d edges, want %d", got, 2*312)
	}

	broad, normal := 0, 0
	for i := 0; i < len(sink.edges); i += 2 {
		lead, trail := sink.edges[i], sink.edges[i+1]
		if !lead.start || trail.start {
			t.Fatalf("edge pair %d not lead/trail", i/2)
		}
		if trail.at-lead.at > 10*time.Microsecond {
			broad++
		} else {
			normal++
		}
	}
	if broad != 5 {
		t.Errorf("%d blanking pulses, want 5", broad)
	}
	if normal != 307 {
		t.Errorf("%d line pulses, want 307", normal)
	}

	// Time keeps advancing across frames.
	before := gen.Now()
	gen.Frame(sink)
	if gen.Now() <= before {
		t.Error("time did not advance into the next frame")
	}
}

func TestClock(t *testing.T) {
	var clk vidsig.Clock
	clk.Sleep(5 * time.Millisecond)
	clk.Advance(5 * time.Millisecond)
	if got := clk.Now(); got != 10*time.Millisecond {
		t.Errorf("now %v, want 10ms", got)
	}
	clk.Set(2 * time.Millisecond) // never backwards
	if got := clk.Now(); got != 10*time.Millisecond {
		t.Errorf("now %v after backwards set", got)
	}
}
