//go:build stm32f103

package main

import (
	"context"

	"bluepill/app"
	"bluepill/board"
	"bluepill/core"
	"bluepill/regs"
)

func main() {
	b, err := board.New(regs.Hardware(), board.DefaultConfig())
	if err != nil {
		halt()
	}

	if debug == "1" {
		b.InitSerial()
		core.SetDebugWriter(b.DebugWriter())
		core.SetDebugEnabled(true)
	}

	a, ok := app.Lookup(mode)
	if !ok {
		// unknown mode: fall back to a visible heartbeat
		a, _ = app.Lookup("blink")
	}
	a.Run(context.Background(), b, app.Options{})
	halt()
}

// halt parks the core once an application returns.
func halt() {
	for {
		core.BusyWait(1 << 20)
	}
}
