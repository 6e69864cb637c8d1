//go:build !tinygo

package sched

import "sync"

var critical sync.Mutex

// Critical runs f with other critical sections excluded. On the host this
// is a process-wide lock.
func Critical(f func()) {
	critical.Lock()
	defer critical.Unlock()
	f()
}
