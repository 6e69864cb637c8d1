package core

// BusyWait spins for iterations loop passes, executing a no-op each pass.
// The loop counter lives in memory the compiler may not elide, so the loop
// survives optimization. The delay is not calibrated: how long a pass takes
// depends on the core clock and the compiler. BusyWait(0) returns at once.
func BusyWait(iterations uint32) {
	busyWait(iterations)
}
