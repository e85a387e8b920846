//go:build stm32

package stm32

import "embedded/rtos"

// NVIC interrupt numbers of the STM32F103.
const (
	IrqDMA1Ch2   rtos.IRQ = 12 // SPI2 pixel data
	IrqDMA1Ch5   rtos.IRQ = 15 // USART1 console, unused
	IrqDMA1Ch6   rtos.IRQ = 16 // overlay end of row
	IrqEXTI9_5   rtos.IRQ = 23 // composite sync edge
	IrqTIM1CC    rtos.IRQ = 27 // pre-end of overlay row
	IrqTIM2      rtos.IRQ = 28 // pre-start of overlay row
	IrqTIM3      rtos.IRQ = 29
	IrqTIM4      rtos.IRQ = 30 // 5ms input tick
	IrqI2C1Ev    rtos.IRQ = 31
	IrqI2C1Err   rtos.IRQ = 32
	IrqUSART1    rtos.IRQ = 37
	IrqEXTI15_10 rtos.IRQ = 40 // vertical sync edge
)

// syncIRQs are the interrupts that mutate detector and timer chain state.
var syncIRQs = [...]rtos.IRQ{
	IrqEXTI9_5, IrqEXTI15_10, IrqTIM1CC, IrqTIM2, IrqDMA1Ch6,
}

// Critical runs fn with the video interrupts masked. The main loop uses it
// for multi-word state the handlers read.
func Critical(fn func()) {
	for _, irq := range syncIRQs {
		irq.Disable(0)
	}
	fn()
	for _, irq := range syncIRQs {
		irq.Enable(rtos.IntPrioHighest, 0)
	}
}

// EnableVideoIRQs unmasks the sync chain at highest priority. The rest of
// the handlers run below it so a button tick can never delay a sync edge.
func EnableVideoIRQs() {
	for _, irq := range syncIRQs {
		irq.Enable(rtos.IntPrioHighest, 0)
	}
	IrqTIM4.Enable(rtos.IntPrioLow, 0)
	IrqI2C1Ev.Enable(rtos.IntPrioMid, 0)
	IrqI2C1Err.Enable(rtos.IntPrioMid, 0)
}
