// Package console provides the device's best-effort text console. Writes go
// into a fixed-size ring and are dropped, whole, when the ring is full; the
// main loop drains the ring to the serial port a few bytes at a time so a
// slow UART can never stall the control loop.
package console

import "io"

const ringSize = 1024

// Console is an io.Writer that never blocks. All methods belong to the main
// loop; interrupt context does not log.
type Console struct {
	buf  [ringSize]byte
	r, w int
	full bool

	dropped int
}

func New() *Console { return &Console{} }

// Write buffers p for later draining. If p does not fit in the free space it
// is dropped entirely, keeping partial lines out of the log.
func (c *Console) Write(p []byte) (int, error) {
	if len(p) > c.free() {
		c.dropped++
		return len(p), nil
	}
	for _, b := range p {
		c.buf[c.w] = b
		c.w = (c.w + 1) % ringSize
	}
	c.full = c.w == c.r && len(p) > 0
	return len(p), nil
}

// Drain moves up to max buffered bytes to w. Returns the number of bytes
// moved.
func (c *Console) Drain(w io.Writer, max int) int {
	n := 0
	for n < max && c.buffered() > 0 {
		end := c.w
		if end <= c.r {
			end = ringSize
		}
		chunk := c.buf[c.r:min(end, c.r+max-n)]
		m, err := w.Write(chunk)
		c.r = (c.r + m) % ringSize
		if m > 0 {
			c.full = false
		}
		n += m
		if err != nil || m < len(chunk) {
			break
		}
	}
	return n
}

// Dropped returns the number of writes discarded so far.
func (c *Console) Dropped() int { return c.dropped }

func (c *Console) buffered() int {
	if c.full {
		return ringSize
	}
	return (c.w - c.r + ringSize) % ringSize
}

func (c *Console) free() int { return ringSize - c.buffered() }
