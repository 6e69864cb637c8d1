package sched

import "runtime"

// State is the lifecycle state of a task.
type State uint8

const (
	Created State = iota
	Ready
	Running
	Blocked
	Terminated
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Blocked:
		return "blocked"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// Task is a cooperatively scheduled thread of control. A task only gives
// up the processor in Delay, Yield or by returning from its entry function.
type Task struct {
	name     string
	priority uint8
	entry    func(*Task)
	s        *Scheduler

	state State
	wake  uint64 // tick at which a blocked task becomes ready
	next  *Task  // sleeping list link
	run   chan struct{}
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.name
}

// Priority returns the task priority; higher runs first.
func (t *Task) Priority() uint8 {
	return t.priority
}

// State returns the current lifecycle state.
func (t *Task) State() State {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.state
}

// Now returns the scheduler tick count.
func (t *Task) Now() uint64 {
	return t.s.Tick()
}

// Delay blocks the task for ms milliseconds of scheduler time. Delay(0)
// behaves like Yield.
func (t *Task) Delay(ms uint32) {
	ticks := MsToTicks(ms)
	if ticks == 0 {
		t.Yield()
		return
	}
	s := t.s
	s.mu.Lock()
	t.state = Blocked
	t.wake = s.tick + ticks
	s.insertSleeping(t)
	s.mu.Unlock()
	t.park()
}

// Yield lets other ready tasks of the same or higher priority run.
func (t *Task) Yield() {
	s := t.s
	s.mu.Lock()
	s.makeReady(t)
	s.mu.Unlock()
	t.park()
}

// park hands the run token back to the dispatcher and waits for it to
// come back. If the scheduler stops meanwhile the goroutine exits.
func (t *Task) park() {
	s := t.s
	select {
	case s.yield <- t:
	case <-s.done:
		runtime.Goexit()
	}
	select {
	case <-t.run:
	case <-s.done:
		runtime.Goexit()
	}
}

// main is the goroutine body of a task.
func (t *Task) main() {
	s := t.s
	defer s.wg.Done()
	select {
	case <-t.run:
	case <-s.done:
		return
	}
	defer func() {
		s.mu.Lock()
		t.state = Terminated
		s.mu.Unlock()
		select {
		case s.yield <- t:
		case <-s.done:
		}
	}()
	t.entry(t)
}
