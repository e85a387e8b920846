// Package stm32 provides access to the STM32F103 peripherals used by the
// OSD: timers, DMA, GPIO, EXTI and the serial interfaces. It only builds
// with the stm32 tag under the embeddedgo toolchain; the portable packages
// never import it.
package stm32
