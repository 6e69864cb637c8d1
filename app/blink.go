// Package app holds the firmware applications. Each one runs on a
// *board.Board, on the chip or against a simulated register file.
package app

import (
	"context"

	"bluepill/board"
	"bluepill/core"
)

const (
	blinkSpins = 100000 // busy-wait between LED toggles
	helloSpins = 500000 // busy-wait between hello lines, about 1 s at 8 MHz
)

// Blink toggles the LED with a busy-wait between toggles. iterations
// bounds the number of toggles; zero means forever. Blink stops early when
// ctx is done and returns ctx.Err().
func Blink(ctx context.Context, b *board.Board, iterations int) error {
	b.InitLED()
	for i := 0; iterations == 0 || i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.ToggleLED()
		core.BusyWait(blinkSpins)
	}
	return nil
}
