//go:build stm32

package timechain

import (
	"unsafe" // also for linkname

	"github.com/penfold42/FF-OSD/osd"
	"github.com/penfold42/FF-OSD/stm32"
)

const (
	ticksPerUS = stm32.SysclkHz / 1_000_000

	// SPI2 runs from the 36MHz APB1 clock divided by 4, giving 9Mbit/s
	// or 8 core ticks per pixel.
	ticksPerPixel = 8

	// Lead from the start of a glyph cell to its first visible pixel,
	// covers the SPI shift register latency.
	boxLead = 80
)

// Output pin of SPI2 MOSI, port B.
const pinMOSI = 15

// Composite sync input, PA8. Matches the EXTI routing in package main.
const pinCSync = 8

// CRH words switching PB15 between SPI output and hi-Z input. Targets of
// the output-enable and output-disable DMA transfers, so they must stay
// addressable.
var (
	crhOn  uint32
	crhOff uint32

	// Written to SPI2.CR2 by the ch2 transfer to start the pixel DMA.
	spiKick uint32 = stm32.SpiTXDMAEN
)

// Slave mode configurations of TIM1. Armed, a sync edge resets the
// horizontal timebase. Painting, the timebase restarts from TIM2 instead so
// that pixel data bleeding into the sync slicer cannot shift the row.
const (
	smcrArmed    = stm32.TimMSM | stm32.TimTSTI1FP1 | stm32.TimSMSReset
	smcrPainting = stm32.TimTSITR1 | stm32.TimSMSTrigger
)

// Chain owns the timers and DMA channels of the overlay output. Exactly one
// instance exists; the interrupt handlers reach it through a package
// variable.
type Chain struct {
	buf  *osd.PixelBuffer
	cols int
	row  int

	hstart  uint32 // left edge of the box in core ticks
	boxEnd  uint32 // right edge, TIM1 CC3
	word3us uint32
}

var active *Chain

// New sets up the timers and DMA channels and leaves the chain disarmed.
// buf must stay reachable for the lifetime of the chain; the DMA reads it
// behind the collector's back.
func New(buf *osd.PixelBuffer) *Chain {
	c := &Chain{buf: buf, cols: osd.MaxCols}
	active = c

	crh := stm32.PortB.CRH.Load()
	crhOff = crh&^(0xf<<((pinMOSI-8)*4)) | stm32.ModeInputFloat<<((pinMOSI-8)*4)
	crhOn = crh&^(0xf<<((pinMOSI-8)*4)) | stm32.ModeOutputAlt<<((pinMOSI-8)*4)
	stm32.PortB.CRH.Store(crhOff)

	// SPI2: master, 16-bit frames, MSB first, 9Mbit/s (36MHz/4).
	const brDiv4 = 1 << 3
	stm32.SPI2.CR1.Store(stm32.SpiMSTR | stm32.SpiSSM | stm32.SpiSSI |
		stm32.SpiDFF16 | brDiv4 | stm32.SpiSPE)

	// Pixel data, SPI2_TX.
	ch5 := stm32.DMA1.Channel(5)
	ch5.CPAR.Store(uint32(uintptr(unsafe.Pointer(&stm32.SPI2.DR))))
	ch5.CCR.Store(stm32.DmaDIR | stm32.DmaMINC |
		stm32.DmaPSIZE16 | stm32.DmaMSIZE16 | stm32.DmaPLMax)

	// Pixel DMA kick, TIM2_UP writes SPI2.CR2.
	ch2 := stm32.DMA1.Channel(2)
	ch2.CPAR.Store(uint32(uintptr(unsafe.Pointer(&stm32.SPI2.CR2))))
	ch2.CMAR.Store(uint32(uintptr(unsafe.Pointer(&spiKick))))
	ch2.CNDTR.Store(1)
	ch2.CCR.Store(stm32.DmaDIR | stm32.DmaCIRC |
		stm32.DmaPSIZE32 | stm32.DmaMSIZE32 | stm32.DmaPLMax | stm32.DmaEN)

	// Output enable, TIM3_UP writes PB CRH.
	ch3 := stm32.DMA1.Channel(3)
	ch3.CPAR.Store(uint32(uintptr(unsafe.Pointer(&stm32.PortB.CRH))))
	ch3.CMAR.Store(uint32(uintptr(unsafe.Pointer(&crhOn))))
	ch3.CNDTR.Store(1)
	ch3.CCR.Store(stm32.DmaDIR | stm32.DmaCIRC |
		stm32.DmaPSIZE32 | stm32.DmaMSIZE32 | stm32.DmaPLMax | stm32.DmaEN)

	// Output disable, TIM1_CH3 writes PB CRH. Its transfer-complete
	// interrupt advances the pixel DMA one row.
	ch6 := stm32.DMA1.Channel(6)
	ch6.CPAR.Store(uint32(uintptr(unsafe.Pointer(&stm32.PortB.CRH))))
	ch6.CMAR.Store(uint32(uintptr(unsafe.Pointer(&crhOff))))
	ch6.CNDTR.Store(1)
	ch6.CCR.Store(stm32.DmaDIR | stm32.DmaCIRC | stm32.DmaTCIE |
		stm32.DmaPSIZE32 | stm32.DmaMSIZE32 | stm32.DmaPLMax | stm32.DmaEN)

	// TIM1: horizontal timebase, master of TIM2 and TIM3 via TRGO on
	// update. CC3 fires the output-disable DMA, CC4 the pre-end
	// interrupt.
	t1 := stm32.TIM1
	t1.PSC.Store(0)
	t1.ARR.Store(0xffff)
	t1.CR2.Store(stm32.TimMMSUpdate)
	t1.DIER.Store(stm32.TimCC3DE | stm32.TimCC4IE)
	t1.CCER.Store(stm32.TimCC3E | stm32.TimCC4E)

	// TIM2: one pulse per line, box left edge. Its own CC1 raises the
	// pre-start interrupt.
	t2 := stm32.TIM2
	t2.PSC.Store(0)
	t2.SMCR.Store(stm32.TimTSITR0 | stm32.TimSMSTrigger)
	t2.CR1.Store(stm32.TimOPM)
	t2.DIER.Store(stm32.TimUDE | stm32.TimCC1IE)

	// TIM3: one pulse per line, output enable just ahead of the pixels.
	t3 := stm32.TIM3
	t3.PSC.Store(0)
	t3.SMCR.Store(stm32.TimTSITR0 | stm32.TimSMSTrigger)
	t3.CR1.Store(stm32.TimOPM)
	t3.DIER.Store(stm32.TimUDE)

	return c
}

func (c *Chain) wordsPerRow() uint32 { return uint32(c.cols/2 + 1) }

// Apply reprograms the line geometry. Main loop context, chain disarmed or
// between frames.
func (c *Chain) Apply(t osd.Timing) {
	// HOff counts units of 20 core ticks from the sync edge.
	c.hstart = uint32(t.HOff) * 20
	stm32.TIM2.ARR.Store(c.hstart - 1)
	stm32.TIM2.CCR1.Store(c.hstart - ticksPerUS)
	stm32.TIM3.ARR.Store(c.hstart - 49)
	c.program()
}

// SetBox sets the width of the overlay box in glyph columns.
func (c *Chain) SetBox(cols int) {
	if cols < 1 {
		cols = 1
	} else if cols > osd.MaxCols {
		cols = osd.MaxCols
	}
	c.cols = cols
	c.boxEnd = c.hstart + uint32(cols)*8*ticksPerPixel + boxLead
	c.program()
}

func (c *Chain) program() {
	stm32.TIM1.CCR3.Store(c.boxEnd)
	stm32.TIM1.CCR4.Store(c.boxEnd - ticksPerUS)
}

// Arm lets the next sync edge reset the horizontal timebase. Interrupt
// context.
//
//go:nosplit
func (c *Chain) Arm() {
	stm32.TIM1.SMCR.Store(smcrArmed)
	stm32.TIM1.CR1.Store(stm32.TimCEN)
}

// Disarm detaches the timebase from the sync input and stops it. Interrupt
// context.
//
//go:nosplit
func (c *Chain) Disarm() {
	stm32.TIM1.SMCR.Store(0)
	stm32.TIM1.CR1.Store(0)
	stm32.TIM2.CR1.Store(stm32.TimOPM)
	stm32.TIM3.CR1.Store(stm32.TimOPM)
}

// Rewind points the pixel DMA back at the first buffer row. Interrupt
// context, runs at the first overlay line of a frame.
//
//go:nosplit
func (c *Chain) Rewind() {
	c.row = 0
	ch5 := stm32.DMA1.Channel(5)
	ch5.CCR.ClearBits(stm32.DmaEN)
	ch5.CMAR.Store(uint32(uintptr(unsafe.Pointer(&c.buf.Row[0]))))
	ch5.CNDTR.Store(c.wordsPerRow())
	ch5.CCR.SetBits(stm32.DmaEN)
}

// StartFrame loads the timing latched for this frame. Interrupt context,
// runs at the blanking to painting transition.
//
//go:nosplit
func (c *Chain) StartFrame(t osd.Timing) {
	hstart := uint32(t.HOff) * 20
	if hstart != c.hstart {
		c.hstart = hstart
		stm32.TIM2.ARR.Store(hstart - 1)
		stm32.TIM2.CCR1.Store(hstart - ticksPerUS)
		stm32.TIM3.ARR.Store(hstart - 49)
		c.boxEnd = hstart + uint32(c.cols)*8*ticksPerPixel + boxLead
		c.program()
	}
	var pol uint32
	if t.Polarity {
		pol = stm32.TimCC1P
	}
	ccer := stm32.TIM1.CCER.Load()
	stm32.TIM1.CCER.Store(ccer&^uint32(stm32.TimCC1P) | pol)

	// Narrow the sync interrupt to the leading edge for the rest of the
	// frame, so each line's pulse raises exactly one edge.
	if t.Polarity {
		stm32.EXTI.RTSR.SetBits(1 << pinCSync)
		stm32.EXTI.FTSR.ClearBits(1 << pinCSync)
	} else {
		stm32.EXTI.FTSR.SetBits(1 << pinCSync)
		stm32.EXTI.RTSR.ClearBits(1 << pinCSync)
	}
}

// WidenWatch makes the sync interrupt fire on both edges so pulse widths
// can be measured while hunting for the start of a frame. StartFrame
// narrows it back to the leading edge.
//
//go:nosplit
func (c *Chain) WidenWatch() {
	stm32.EXTI.RTSR.SetBits(1 << pinCSync)
	stm32.EXTI.FTSR.SetBits(1 << pinCSync)
}

// Pre-start of a row: detach the timebase from the sync input for the
// duration of the visible pixels and sit out the instant where the DMA
// triggers fire.
//
//go:nosplit
//go:linkname prestartHandler IRQ28_Handler
//go:interrupthandler
func prestartHandler() {
	stm32.TIM2.SR.Store(0)
	stm32.TIM1.SMCR.Store(smcrPainting)
	stm32.DelayUS(1)
}

// Pre-end of a row: keep the bus quiet while the output-disable transfer
// triggers, then listen to the sync input again.
//
//go:nosplit
//go:linkname preendHandler IRQ27_Handler
//go:interrupthandler
func preendHandler() {
	stm32.TIM1.SR.Store(0)
	stm32.DelayUS(1)
	stm32.TIM1.SMCR.Store(smcrArmed)
}

// End of a row: the output pin is tristated, move the pixel DMA to the next
// buffer row.
//
//go:nosplit
//go:linkname rowDoneHandler IRQ16_Handler
//go:interrupthandler
func rowDoneHandler() {
	stm32.DMA1.ClearTC(6)
	c := active
	c.row++
	if c.row >= osd.MaxDisplayHeight {
		c.row = osd.MaxDisplayHeight - 1
	}
	ch5 := stm32.DMA1.Channel(5)
	ch5.CCR.ClearBits(stm32.DmaEN)
	ch5.CMAR.Store(uint32(uintptr(unsafe.Pointer(&c.buf.Row[c.row]))))
	ch5.CNDTR.Store(c.wordsPerRow())
	ch5.CCR.SetBits(stm32.DmaEN)
}
