// Package timechain drives the overlay's pixel output through a chain of
// hardware timers and DMA channels, so that once a frame is armed the
// per-line work happens without the CPU touching a pixel.
//
// The chain on the STM32F103:
//
//	CSYNC edge ──resets── TIM1 (horizontal timebase, 72MHz)
//	                       ├── TRGO ── TIM2 one-pulse, update at the left
//	                       │           edge of the box. TIM2_UP DMA (ch2)
//	                       │           writes SPI2.CR2 to kick the pixel
//	                       │           DMA, TIM2 CC1 raises the pre-start
//	                       │           interrupt 1us earlier.
//	                       ├── TRGO ── TIM3 one-pulse, update slightly
//	                       │           before TIM2. TIM3_UP DMA (ch3)
//	                       │           switches the output pin to the SPI
//	                       │           peripheral.
//	                       ├── CC3 ──  right edge of the box. TIM1_CH3 DMA
//	                       │           (ch6) tristates the output pin; its
//	                       │           transfer-complete interrupt advances
//	                       │           the pixel DMA to the next row.
//	                       └── CC4 ──  pre-end interrupt 1us before CC3.
//
// SPI2 shifts the row buffer out MSB first at the pixel clock, fed by DMA
// channel 5. The pre-start and pre-end handlers only retask TIM1's slave
// mode and busy-wait over the critical instant, keeping the bus quiet while
// the DMA triggers fire.
//
// The package only builds with the stm32 tag. The portable code reaches it
// through the Chain interface.
package timechain
