package core

// SettleSpins returns a ClockGate settle hook that busy-waits for
// iterations, or nil when iterations is zero.
func SettleSpins(iterations uint32) func() {
	if iterations == 0 {
		return nil
	}
	return func() { BusyWait(iterations) }
}
