//go:build cortexm

package core

import (
	"device/arm"
	"runtime/volatile"
)

func busyWait(iterations uint32) {
	var n volatile.Register32
	n.Set(iterations)
	for n.Get() != 0 {
		arm.Asm("nop")
		n.Set(n.Get() - 1)
	}
}
