//go:build stm32

package stm32

import (
	"embedded/mmio"
	"embedded/rtos"
	"time"
	"unsafe"
)

// SysclkHz is the core clock after PLL setup. All timer prescalers assume
// it.
const SysclkHz = 72_000_000

var dwt *dwtRegs = (*dwtRegs)(unsafe.Pointer(uintptr(0xE000_1000)))

type dwtRegs struct {
	CTRL   mmio.U32
	CYCCNT mmio.U32
}

var demcr *mmio.U32 = (*mmio.U32)(unsafe.Pointer(uintptr(0xE000_EDFC)))

// EnableCycleCounter switches on the DWT cycle counter used for short
// busy-waits.
func EnableCycleCounter() {
	demcr.SetBits(1 << 24) // TRCENA
	dwt.CYCCNT.Store(0)
	dwt.CTRL.SetBits(1 << 0) // CYCCNTENA
}

// DelayCycles busy-waits for n core cycles. Safe in interrupt handlers.
//
//go:nosplit
func DelayCycles(n uint32) {
	start := dwt.CYCCNT.Load()
	for dwt.CYCCNT.Load()-start < n {
	}
}

// DelayUS busy-waits for n microseconds.
//
//go:nosplit
func DelayUS(n uint32) { DelayCycles(n * (SysclkHz / 1_000_000)) }

// Clock is the board's monotonic time source.
type Clock struct{}

func (Clock) Now() time.Duration { return time.Duration(rtos.Nanotime()) }

func (Clock) Sleep(d time.Duration) { time.Sleep(d) }

// Nanotime returns the monotonic clock. Safe in interrupt handlers.
//
//go:nosplit
func Nanotime() time.Duration { return time.Duration(rtos.Nanotime()) }
