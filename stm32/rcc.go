//go:build stm32

package stm32

import (
	"embedded/mmio"
	"unsafe"
)

var RCC *rccRegs = (*rccRegs)(unsafe.Pointer(uintptr(0x4002_1000)))

type rccRegs struct {
	CR       mmio.U32
	CFGR     mmio.U32
	CIR      mmio.U32
	APB2RSTR mmio.U32
	APB1RSTR mmio.U32
	AHBENR   mmio.U32
	APB2ENR  mmio.U32
	APB1ENR  mmio.U32
	BDCR     mmio.U32
	CSR      mmio.U32
}

// APB2ENR bits
const (
	AFIOEN   = 1 << 0
	IOPAEN   = 1 << 2
	IOPBEN   = 1 << 3
	IOPCEN   = 1 << 4
	TIM1EN   = 1 << 11
	SPI1EN   = 1 << 12
	USART1EN = 1 << 14
)

// APB1ENR bits
const (
	TIM2EN = 1 << 0
	TIM3EN = 1 << 1
	TIM4EN = 1 << 2
	SPI2EN = 1 << 14
	I2C1EN = 1 << 21
)

// AHBENR bits
const (
	DMA1EN = 1 << 0
)

// EnableClocks gates the clocks of every peripheral the firmware touches.
// Must run before any other register access.
func EnableClocks() {
	RCC.AHBENR.SetBits(DMA1EN)
	RCC.APB2ENR.SetBits(AFIOEN | IOPAEN | IOPBEN | IOPCEN | TIM1EN | USART1EN)
	RCC.APB1ENR.SetBits(TIM2EN | TIM3EN | TIM4EN | SPI2EN | I2C1EN)
}
