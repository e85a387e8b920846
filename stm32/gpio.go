//go:build stm32

package stm32

import (
	"embedded/mmio"
	"unsafe"
)

var (
	PortA *gpioRegs = (*gpioRegs)(unsafe.Pointer(uintptr(0x4001_0800)))
	PortB *gpioRegs = (*gpioRegs)(unsafe.Pointer(uintptr(0x4001_0C00)))
	PortC *gpioRegs = (*gpioRegs)(unsafe.Pointer(uintptr(0x4001_1000)))

	AFIO *afioRegs = (*afioRegs)(unsafe.Pointer(uintptr(0x4001_0000)))
	EXTI *extiRegs = (*extiRegs)(unsafe.Pointer(uintptr(0x4001_0400)))
)

type gpioRegs struct {
	CRL  mmio.U32
	CRH  mmio.U32
	IDR  mmio.U32
	ODR  mmio.U32
	BSRR mmio.U32
	BRR  mmio.U32
	LCKR mmio.U32
}

type afioRegs struct {
	EVCR   mmio.U32
	MAPR   mmio.U32
	EXTICR [4]mmio.U32
	_      mmio.U32
	MAPR2  mmio.U32
}

type extiRegs struct {
	IMR   mmio.U32
	EMR   mmio.U32
	RTSR  mmio.U32
	FTSR  mmio.U32
	SWIER mmio.U32
	PR    mmio.U32
}

// Pin modes, one CNF/MODE nibble per pin in CRL/CRH.
const (
	ModeInputAnalog   = 0x0
	ModeInputFloat    = 0x4
	ModeInputPull     = 0x8
	ModeOutput        = 0x3 // push-pull, 50MHz
	ModeOutputOpen    = 0x7
	ModeOutputAlt     = 0xb // alternate function push-pull
	ModeOutputAltOpen = 0xf
)

// Configure sets the mode nibble of one pin.
func (g *gpioRegs) Configure(pin int, mode uint32) {
	reg := &g.CRL
	if pin >= 8 {
		reg, pin = &g.CRH, pin-8
	}
	v := reg.Load()
	v &^= 0xf << (pin * 4)
	v |= mode << (pin * 4)
	reg.Store(v)
}

// Set drives one output pin high.
//
//go:nosplit
func (g *gpioRegs) Set(pin int) { g.BSRR.Store(1 << pin) }

// Clear drives one output pin low.
//
//go:nosplit
func (g *gpioRegs) Clear(pin int) { g.BRR.Store(1 << pin) }

// Read samples one input pin.
//
//go:nosplit
func (g *gpioRegs) Read(pin int) bool { return g.IDR.Load()&(1<<pin) != 0 }

// RouteEXTI connects an EXTI line to a port. The port index follows the
// EXTICR encoding, 0 for port A.
func RouteEXTI(line, port int) {
	r := &AFIO.EXTICR[line/4]
	shift := (line % 4) * 4
	v := r.Load()
	v &^= 0xf << shift
	v |= uint32(port) << shift
	r.Store(v)
}
