//go:build stm32f103

package regs

import (
	"runtime/volatile"
	"unsafe"
)

// Hardware returns the register blocks of the running chip, backed by
// volatile memory-mapped registers at their physical addresses.
func Hardware() *Device {
	return mapDevice(func(addr uint32) Register {
		return (*volatile.Register32)(unsafe.Pointer(uintptr(addr)))
	})
}
