//go:build tinygo

package core

import (
	"time"

	"tinygo.org/x/drivers/delay"
)

// SettleFor returns a ClockGate settle hook that waits d with a
// cycle-counted delay, or nil when d is not positive.
func SettleFor(d time.Duration) func() {
	if d <= 0 {
		return nil
	}
	return func() { delay.Sleep(d) }
}
