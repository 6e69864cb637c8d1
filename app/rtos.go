package app

import (
	"context"
	"sync/atomic"

	"bluepill/board"
	"bluepill/sched"
)

const (
	ledPeriodMs  = 500
	idlePeriodMs = 1000
)

// RTOSBlink runs two tasks of equal priority on s: one toggles the LED
// every 500 ms, the other wakes every second and does nothing else.
// toggles bounds the LED task; zero means forever. The idle task ends
// once the LED task has. It returns what s.Start returns.
func RTOSBlink(ctx context.Context, b *board.Board, s *sched.Scheduler, toggles int) error {
	b.InitLED()

	var ledDone atomic.Bool
	if _, err := s.CreateTask("led", 1, func(t *sched.Task) {
		defer ledDone.Store(true)
		for i := 0; toggles == 0 || i < toggles; i++ {
			sched.Critical(b.ToggleLED)
			t.Delay(ledPeriodMs)
		}
	}); err != nil {
		return err
	}
	if _, err := s.CreateTask("idle", 1, func(t *sched.Task) {
		for !ledDone.Load() {
			t.Delay(idlePeriodMs)
		}
	}); err != nil {
		return err
	}
	return s.Start(ctx)
}
