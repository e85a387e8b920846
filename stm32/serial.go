//go:build stm32

package stm32

import (
	"embedded/mmio"
	"unsafe"
)

var (
	SPI2   *spiRegs   = (*spiRegs)(unsafe.Pointer(uintptr(0x4000_3800)))
	USART1 *usartRegs = (*usartRegs)(unsafe.Pointer(uintptr(0x4001_3800)))
	I2C1   *i2cRegs   = (*i2cRegs)(unsafe.Pointer(uintptr(0x4000_5400)))
)

type spiRegs struct {
	CR1    mmio.U32
	CR2    mmio.U32
	SR     mmio.U32
	DR     mmio.U32
	CRCPR  mmio.U32
	RXCRCR mmio.U32
	TXCRCR mmio.U32
}

// SPI CR1 bits
const (
	SpiCPHA     = 1 << 0
	SpiCPOL     = 1 << 1
	SpiMSTR     = 1 << 2
	SpiSPE      = 1 << 6
	SpiLSBFIRST = 1 << 7
	SpiSSI      = 1 << 8
	SpiSSM      = 1 << 9
	SpiDFF16    = 1 << 11
)

// SPI CR2 bits
const (
	SpiTXDMAEN = 1 << 1
)

type usartRegs struct {
	SR   mmio.U32
	DR   mmio.U32
	BRR  mmio.U32
	CR1  mmio.U32
	CR2  mmio.U32
	CR3  mmio.U32
	GTPR mmio.U32
}

// USART SR bits
const (
	UsartRXNE = 1 << 5
	UsartTXE  = 1 << 7
)

// USART CR1 bits
const (
	UsartRE = 1 << 2
	UsartTE = 1 << 3
	UsartUE = 1 << 13
)

// WriteReady reports whether the transmit register can take a byte.
//
//go:nosplit
func (u *usartRegs) WriteReady() bool { return u.SR.Load()&UsartTXE != 0 }

// WriteByte stores one byte for transmission. The caller checks WriteReady.
//
//go:nosplit
func (u *usartRegs) WriteByte(b byte) { u.DR.Store(uint32(b)) }

type i2cRegs struct {
	CR1   mmio.U32
	CR2   mmio.U32
	OAR1  mmio.U32
	OAR2  mmio.U32
	DR    mmio.U32
	SR1   mmio.U32
	SR2   mmio.U32
	CCR   mmio.U32
	TRISE mmio.U32
}

// I2C CR1 bits
const (
	I2CPE      = 1 << 0
	I2CENGC    = 1 << 6
	I2CNOSTRCH = 1 << 7
	I2CACK     = 1 << 10
)

// I2C SR1 bits
const (
	I2CADDR    = 1 << 1
	I2CSTOPF   = 1 << 4
	I2CRXNE    = 1 << 6
	I2CTXE     = 1 << 7
	I2CBERR    = 1 << 8
	I2CAF      = 1 << 10
	I2COVR     = 1 << 11
	I2CErrBits = I2CBERR | I2CAF | I2COVR
)

// I2C SR2 bits
const (
	I2CTRA = 1 << 2
	I2CGC  = 1 << 4
)
