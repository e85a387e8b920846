//go:build stm32

package stm32

import (
	"embedded/mmio"
	"unsafe"
)

var DMA1 *dmaRegs = (*dmaRegs)(unsafe.Pointer(uintptr(0x4002_0000)))

type dmaRegs struct {
	ISR  mmio.U32
	IFCR mmio.U32
	CH   [7]dmaChannel
}

type dmaChannel struct {
	CCR   mmio.U32
	CNDTR mmio.U32
	CPAR  mmio.U32
	CMAR  mmio.U32
	_     mmio.U32
}

// CCR bits
const (
	DmaEN      = 1 << 0
	DmaTCIE    = 1 << 1
	DmaDIR     = 1 << 4 // read from memory
	DmaCIRC    = 1 << 5
	DmaMINC    = 1 << 7
	DmaPSIZE16 = 1 << 8
	DmaPSIZE32 = 2 << 8
	DmaMSIZE16 = 1 << 10
	DmaMSIZE32 = 2 << 10
	DmaPLHigh  = 2 << 12
	DmaPLMax   = 3 << 12
)

// Channel returns the registers of one channel, counted from 1 as in the
// reference manual.
//
//go:nosplit
func (d *dmaRegs) Channel(n int) *dmaChannel { return &d.CH[n-1] }

// ClearTC acknowledges the transfer-complete flag of channel n.
//
//go:nosplit
func (d *dmaRegs) ClearTC(n int) { d.IFCR.Store(2 << ((n - 1) * 4)) }
