package sched

import (
	"context"
	"time"
)

// TickRate is the number of scheduler ticks per second.
const TickRate = 1000

// Clock advances scheduler time while no task is ready.
type Clock interface {
	// Sleep blocks for the given number of ticks or until ctx is done.
	Sleep(ctx context.Context, ticks uint64) error
}

// RealClock sleeps in wall-clock time.
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, ticks uint64) error {
	timer := time.NewTimer(time.Duration(ticks) * time.Second / TickRate)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// VirtualClock jumps straight to the next wake time. Tests use it to run
// long schedules instantly.
type VirtualClock struct{}

func (VirtualClock) Sleep(ctx context.Context, ticks uint64) error {
	return ctx.Err()
}

// MsToTicks converts milliseconds to scheduler ticks.
func MsToTicks(ms uint32) uint64 {
	return uint64(ms) * TickRate / 1000
}
