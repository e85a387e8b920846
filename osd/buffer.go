package osd

// Pixel buffer guard words. A runaway render or a mis-programmed transfer
// address shows up here before it can wreck anything else.
var guardWords = [2]uint16{0xdead, 0xbeef}

// PixelBuffer holds one packed pixel row per overlay scan line. It is written
// only by the renderer while the state machine guarantees the timing chain is
// not reading it, and read only by the autonomous pixel transfer.
type PixelBuffer struct {
	lo  [2]uint16
	Row [MaxDisplayHeight][BufWords]uint16
	hi  [2]uint16
}

// InitGuards places known values at both extremities of the buffer. Call once
// before the timing chain is pointed at the buffer.
func (b *PixelBuffer) InitGuards() {
	b.lo = guardWords
	b.hi = guardWords
}

// GuardsIntact reports whether the guard words still hold their initial
// values. The supervisor checks this every loop iteration and halts on
// corruption rather than keep driving output timing from bad memory.
func (b *PixelBuffer) GuardsIntact() bool {
	return b.lo == guardWords && b.hi == guardWords
}
