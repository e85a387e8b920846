//go:build stm32

package stm32

import (
	"embedded/mmio"
	"unsafe"
)

var (
	TIM1 *timRegs = (*timRegs)(unsafe.Pointer(uintptr(0x4001_2C00)))
	TIM2 *timRegs = (*timRegs)(unsafe.Pointer(uintptr(0x4000_0000)))
	TIM3 *timRegs = (*timRegs)(unsafe.Pointer(uintptr(0x4000_0400)))
	TIM4 *timRegs = (*timRegs)(unsafe.Pointer(uintptr(0x4000_0800)))
)

type timRegs struct {
	CR1   mmio.U32
	CR2   mmio.U32
	SMCR  mmio.U32
	DIER  mmio.U32
	SR    mmio.U32
	EGR   mmio.U32
	CCMR1 mmio.U32
	CCMR2 mmio.U32
	CCER  mmio.U32
	CNT   mmio.U32
	PSC   mmio.U32
	ARR   mmio.U32
	RCR   mmio.U32
	CCR1  mmio.U32
	CCR2  mmio.U32
	CCR3  mmio.U32
	CCR4  mmio.U32
	BDTR  mmio.U32
	DCR   mmio.U32
	DMAR  mmio.U32
}

// CR1 bits
const (
	TimCEN  = 1 << 0
	TimOPM  = 1 << 3 // one-pulse mode
	TimARPE = 1 << 7
)

// CR2 bits
const (
	TimMMSUpdate = 2 << 4 // TRGO on update event
)

// SMCR fields
const (
	TimSMSTrigger = 6 << 0 // start counter on trigger
	TimSMSExtClk  = 7 << 0
	TimSMSReset   = 4 << 0 // reset counter on trigger
	TimTSITR0     = 0 << 4
	TimTSITR1     = 1 << 4
	TimTSTI1FP1   = 5 << 4
	TimMSM        = 1 << 7
)

// DIER bits
const (
	TimUIE   = 1 << 0
	TimCC1IE = 1 << 1
	TimCC2IE = 1 << 2
	TimCC3IE = 1 << 3
	TimCC4IE = 1 << 4
	TimUDE   = 1 << 8
	TimCC1DE = 1 << 9
	TimCC2DE = 1 << 10
	TimCC3DE = 1 << 11
	TimCC4DE = 1 << 12
)

// SR bits share the DIER layout for the interrupt flags.

// EGR bits
const (
	TimUG = 1 << 0
)

// CCMR output-compare mode, shifted into the channel's field by the caller.
const (
	TimOCFrozen  = 0 << 4
	TimOCPWM1    = 6 << 4
	TimOCPreload = 1 << 3
)

// CCER bits, channel n at bit 4n.
const (
	TimCC1E = 1 << 0
	TimCC1P = 1 << 1
	TimCC2E = 1 << 4
	TimCC3E = 1 << 8
	TimCC4E = 1 << 12
)

// BDTR bits
const (
	TimMOE = 1 << 15
)
