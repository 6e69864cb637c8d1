//go:build !cortexm

package core

import "sync/atomic"

// nop stands in for the no-op instruction
var nop = func() {}

func busyWait(iterations uint32) {
	var n atomic.Uint32
	n.Store(iterations)
	for n.Load() != 0 {
		nop()
		n.Add(^uint32(0))
	}
}
