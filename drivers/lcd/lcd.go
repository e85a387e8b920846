// Package lcd rebuilds the Gotek's display content by snooping its I2C bus.
//
// The Gotek firmware talks to a PCF8574 I/O expander sitting in front of an
// HD44780 character LCD. We sit on the same bus as a second slave, record
// the traffic and replay the register writes through a model of the
// expander and the LCD controller, leaving a copy of the visible text in
// Display.
//
// Firmware that knows about us can instead address us directly and use a
// small command protocol to set text, geometry and display state, and to
// read back button input.
//
// Push, Start and Stop are called from the I2C interrupt handler and only
// append to a ring buffer. Process drains the ring and runs the protocol
// state machines in the main loop.
package lcd

import (
	"sync/atomic"

	"github.com/penfold42/FF-OSD/osd"
)

// Bus addresses answered to, or snooped, by the device.
const (
	AddrBackpack = 0x27 // PCF8574 backpack carrying an HD44780
	AddrDirect   = 0x10 // direct protocol for OSD-aware firmware
)

// PCF8574 to HD44780 wiring of the common backpack module.
const (
	pinRS        = 1 << 0
	pinRW        = 1 << 1
	pinE         = 1 << 2
	pinBacklight = 1 << 3
)

// Direct protocol commands. A transaction is the command byte followed by
// its operands; bytes 0x20 and up outside a command write text at the
// cursor.
const (
	cmdClear   = 0x01 // no operands
	cmdSetRows = 0x02 // rows
	cmdSetCols = 0x03 // columns
	cmdCursor  = 0x04 // row, column
	cmdButtons = 0x05 // button state reported by the remote end
	cmdDisplay = 0x06 // 0 = off, 1 = on
)

// Ring events. The low byte carries the payload.
const (
	evByte  = 0 << 8
	evStart = 1 << 8
	evStop  = 2 << 8
)

const ringSize = 512

// Decoder shadows the bus traffic of one Gotek. The zero value must be
// given a geometry with Init before use.
type Decoder struct {
	// Display holds the reconstructed LCD content. Only Process writes
	// to it.
	Display osd.Display

	ring    [ringSize]uint16
	rd, wr  atomic.Uint32
	dropped atomic.Uint32

	buttons atomic.Uint32

	addr  byte
	inTxn bool

	// expander and controller model
	prevPins byte
	nibble   byte
	haveNib  bool
	cgram    bool
	cursor   int

	// direct protocol
	cmd   byte
	oper  [2]byte
	nOper int
	crow  int
	ccol  int
}

// Init sets the geometry of the snooped LCD and clears its model.
func (d *Decoder) Init(rows, cols int) {
	if rows > osd.MaxRows {
		rows = osd.MaxRows
	}
	if cols > osd.MaxCols {
		cols = osd.MaxCols
	}
	d.Display.Rows = rows
	d.Display.Cols = cols
	d.clear()
}

// Start records an address phase. Interrupt context.
//
//go:nosplit
func (d *Decoder) Start(addr byte) { d.push(evStart | uint16(addr)) }

// Push records one data byte. Interrupt context.
//
//go:nosplit
func (d *Decoder) Push(b byte) { d.push(evByte | uint16(b)) }

// Stop records a stop condition. Interrupt context.
//
//go:nosplit
func (d *Decoder) Stop() { d.push(evStop) }

//go:nosplit
func (d *Decoder) push(ev uint16) {
	wr := d.wr.Load()
	if wr-d.rd.Load() >= ringSize {
		d.dropped.Add(1)
		return
	}
	d.ring[wr%ringSize] = ev
	d.wr.Store(wr + 1)
}

// Dropped returns the number of bus events lost to ring overflow.
func (d *Decoder) Dropped() int { return int(d.dropped.Load()) }

// Buttons returns the button state last reported over the direct protocol.
// The bits are levels, not edges, and stay set while the remote end holds
// the button down.
func (d *Decoder) Buttons() osd.Buttons {
	return osd.Buttons(d.buttons.Load())
}

// Process drains buffered bus traffic into the display model. It returns
// true if the display content may have changed.
func (d *Decoder) Process() bool {
	changed := false
	for rd := d.rd.Load(); rd != d.wr.Load(); rd++ {
		ev := d.ring[rd%ringSize]
		d.rd.Store(rd + 1)
		switch ev & 0xff00 {
		case evStart:
			d.addr = byte(ev)
			d.inTxn = d.addr == AddrBackpack || d.addr == AddrDirect
			d.nOper = 0
			d.cmd = 0
		case evStop:
			d.inTxn = false
		case evByte:
			if !d.inTxn {
				break
			}
			if d.addr == AddrDirect {
				changed = d.direct(byte(ev)) || changed
			} else {
				changed = d.expander(byte(ev)) || changed
			}
		}
	}
	return changed
}

// expander replays one PCF8574 register write. The Gotek strobes E high
// then low around each nibble; the controller latches on the falling edge.
func (d *Decoder) expander(pins byte) bool {
	fell := d.prevPins&pinE != 0 && pins&pinE == 0
	d.prevPins = pins
	if !fell || pins&pinRW != 0 {
		// Not a falling edge, or a busy-flag read.
		return false
	}
	nib := pins >> 4
	if !d.haveNib {
		d.nibble = nib
		d.haveNib = true
		return false
	}
	d.haveNib = false
	b := d.nibble<<4 | nib
	if pins&pinRS != 0 {
		return d.write(b)
	}
	return d.command(b)
}

// command handles one HD44780 instruction.
func (d *Decoder) command(b byte) bool {
	switch {
	case b == 0x01: // clear display
		d.clear()
		return true
	case b <= 0x03: // return home
		d.cursor = 0
	case b < 0x08: // entry mode set
	case b < 0x10: // display control
		on := b&0x04 != 0
		changed := on != d.Display.On
		d.Display.On = on
		return changed
	case b < 0x20: // cursor or display shift
	case b < 0x40: // function set
		// An 8-bit function set arrives as a lone nibble during the
		// reset dance. Nothing to model either way.
	case b < 0x80: // set CGRAM address
		d.cgram = true
	default: // set DDRAM address
		d.cgram = false
		d.cursor = int(b & 0x7f)
	}
	return false
}

// write handles one data byte at the current address.
func (d *Decoder) write(b byte) bool {
	if d.cgram {
		// Custom glyph definition, nothing we can show.
		return false
	}
	row, col := d.locate(d.cursor)
	d.cursor = (d.cursor + 1) & 0x7f
	if row >= d.Display.Rows || col >= d.Display.Cols {
		return false
	}
	d.Display.Text[row][col] = fontCode(b)
	return true
}

// locate maps a DDRAM address to a row and column. Four-row modules
// interleave rows in DDRAM; two-row modules use only the first two bases.
func (d *Decoder) locate(addr int) (row, col int) {
	bases := [osd.MaxRows]int{0x00, 0x40, 0x14, 0x54}
	n := d.Display.Rows
	if n > 2 {
		n = 4
	}
	// The base with the smallest non-negative offset wins.
	best, col := -1, addr
	for i := 0; i < n; i++ {
		off := addr - bases[i]
		if off >= 0 && (best < 0 || off < col) {
			best, col = i, off
		}
	}
	if best < 0 {
		return 0, addr
	}
	return best, col
}

// direct handles one byte of the direct protocol.
func (d *Decoder) direct(b byte) bool {
	if d.cmd != 0 {
		d.oper[d.nOper] = b
		d.nOper++
		if d.nOper < operands(d.cmd) {
			return false
		}
		cmd := d.cmd
		d.cmd, d.nOper = 0, 0
		return d.directCmd(cmd)
	}
	if b < 0x20 {
		if operands(b) == 0 {
			return d.directCmd(b)
		}
		d.cmd = b
		return false
	}
	// Text at the cursor.
	if d.crow >= d.Display.Rows || d.ccol >= d.Display.Cols {
		return false
	}
	d.Display.Text[d.crow][d.ccol] = b
	d.ccol++
	return true
}

func operands(cmd byte) int {
	switch cmd {
	case cmdClear:
		return 0
	case cmdCursor:
		return 2
	default:
		return 1
	}
}

func (d *Decoder) directCmd(cmd byte) bool {
	switch cmd {
	case cmdClear:
		d.clear()
		return true
	case cmdSetRows:
		n := int(d.oper[0])
		if n >= 1 && n <= osd.MaxRows && n != d.Display.Rows {
			d.Display.Rows = n
			return true
		}
	case cmdSetCols:
		n := int(d.oper[0])
		if n >= 1 && n <= osd.MaxCols && n != d.Display.Cols {
			d.Display.Cols = n
			return true
		}
	case cmdCursor:
		d.crow, d.ccol = int(d.oper[0]), int(d.oper[1])
	case cmdButtons:
		d.buttons.Store(uint32(d.oper[0]) &
			uint32(osd.ButtonLeft|osd.ButtonRight|osd.ButtonSelect))
	case cmdDisplay:
		on := d.oper[0] != 0
		if on != d.Display.On {
			d.Display.On = on
			return true
		}
	}
	return false
}

func (d *Decoder) clear() {
	for r := range d.Display.Text {
		for c := range d.Display.Text[r] {
			d.Display.Text[r][c] = ' '
		}
	}
	d.cursor = 0
	d.crow, d.ccol = 0, 0
	d.cgram = false
	d.haveNib = false
}
