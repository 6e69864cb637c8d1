//go:build !tinygo

package core

import "time"

// SettleFor returns a ClockGate settle hook that sleeps for d, or nil when
// d is not positive.
func SettleFor(d time.Duration) func() {
	if d <= 0 {
		return nil
	}
	return func() { time.Sleep(d) }
}
