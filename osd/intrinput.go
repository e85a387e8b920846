package osd

import "sync/atomic"

// IntrInput hands values from the main loop into interrupt context without
// locking. Exactly one writer (the main loop) and one reader (an interrupt
// that preempts the writer) are allowed; the reader must not itself be
// preemptible by the writer.
//
// The writer alternates between two slots and publishes the slot index with
// an atomic store after the value is fully written. The reader swaps the
// index out, so a value is reported as updated exactly once.
type IntrInput[T any] struct {
	slot [2]T

	next   int32 // writer only
	cur    int32 // reader only
	latest atomic.Int32
}

func (p *IntrInput[T]) init(v T) {
	p.slot[0] = v
	p.cur = 0
	p.next = 1
	p.latest.Store(-1)
}

// Store publishes a new value to the reader.
func (p *IntrInput[T]) Store(v T) {
	n := p.next
	p.slot[n] = v
	p.latest.Store(n)
	p.next = n ^ 1
}

// Last returns the most recently stored value. Writer side only.
func (p *IntrInput[T]) Last() T {
	return p.slot[p.next^1]
}

// Latch returns the current value and whether it changed since the previous
// Latch. Reader side only.
//
//go:nosplit
func (p *IntrInput[T]) Latch() (v T, updated bool) {
	n := p.latest.Swap(-1)
	if n < 0 {
		return p.slot[p.cur], false
	}
	p.cur = n
	return p.slot[n], true
}
