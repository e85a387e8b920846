//go:build stm32

package stm32

import (
	"embedded/mmio"
	"errors"
	"unsafe"
)

var flash *flashRegs = (*flashRegs)(unsafe.Pointer(uintptr(0x4002_2000)))

type flashRegs struct {
	ACR     mmio.U32
	KEYR    mmio.U32
	OPTKEYR mmio.U32
	SR      mmio.U32
	CR      mmio.U32
	AR      mmio.U32
	_       mmio.U32
	OBR     mmio.U32
	WRPR    mmio.U32
}

// CR bits
const (
	flashPG   = 1 << 0
	flashPER  = 1 << 1
	flashSTRT = 1 << 6
	flashLOCK = 1 << 7
)

// SR bits
const (
	flashBSY      = 1 << 0
	flashPGERR    = 1 << 2
	flashWRPRTERR = 1 << 4
	flashEOP      = 1 << 5
)

const (
	flashKey1 = 0x4567_0123
	flashKey2 = 0xCDEF_89AB
)

var ErrFlash = errors.New("stm32: flash program failed")

const pageSize = 1024

// SettingsFlash stores the configuration blob in the last flash page of a
// 64K part. It implements the Read and Write methods the config package
// expects.
type SettingsFlash struct {
	Base uintptr // page address, defaults to the last 1K of 64K flash
}

func (f *SettingsFlash) base() uintptr {
	if f.Base != 0 {
		return f.Base
	}
	return 0x0800_0000 + 64*1024 - pageSize
}

func (f *SettingsFlash) Read(p []byte) error {
	src := unsafe.Slice((*byte)(unsafe.Pointer(f.base())), len(p))
	copy(p, src)
	return nil
}

func (f *SettingsFlash) Write(p []byte) error {
	unlock()
	defer lock()
	if err := erasePage(f.base()); err != nil {
		return err
	}
	// Program by halfwords.
	for i := 0; i < len(p); i += 2 {
		var hw uint16 = uint16(p[i])
		if i+1 < len(p) {
			hw |= uint16(p[i+1]) << 8
		}
		if err := program(f.base()+uintptr(i), hw); err != nil {
			return err
		}
	}
	return nil
}

func unlock() {
	if flash.CR.Load()&flashLOCK != 0 {
		flash.KEYR.Store(flashKey1)
		flash.KEYR.Store(flashKey2)
	}
}

func lock() { flash.CR.SetBits(flashLOCK) }

func wait() error {
	for flash.SR.Load()&flashBSY != 0 {
	}
	sr := flash.SR.Load()
	flash.SR.Store(flashPGERR | flashWRPRTERR | flashEOP)
	if sr&(flashPGERR|flashWRPRTERR) != 0 {
		return ErrFlash
	}
	return nil
}

func erasePage(addr uintptr) error {
	flash.CR.SetBits(flashPER)
	flash.AR.Store(uint32(addr))
	flash.CR.SetBits(flashSTRT)
	err := wait()
	flash.CR.ClearBits(flashPER)
	return err
}

func program(addr uintptr, hw uint16) error {
	flash.CR.SetBits(flashPG)
	(*mmio.U16)(unsafe.Pointer(addr)).Store(hw)
	err := wait()
	flash.CR.ClearBits(flashPG)
	return err
}
