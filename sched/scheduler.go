// Package sched is a small cooperative task scheduler with the shape of
// an RTOS kernel: prioritized tasks, millisecond delays and a tick clock.
// Exactly one task runs at a time.
package sched

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrStarted is returned when the scheduler is started twice or a task
	// is created after start.
	ErrStarted = errors.New("sched: scheduler already started")

	// ErrNoTasks is returned by Start when no task was created.
	ErrNoTasks = errors.New("sched: no tasks")
)

// Scheduler dispatches tasks. Create tasks with CreateTask, then call Start.
type Scheduler struct {
	clock Clock

	mu       sync.Mutex
	tasks    []*Task
	ready    []*Task // highest priority first, FIFO within a priority
	sleeping *Task   // sorted by wake tick
	tick     uint64
	started  bool

	yield chan *Task
	done  chan struct{}
	wg    sync.WaitGroup
}

// New returns a scheduler driven by clock. A nil clock means RealClock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{
		clock: clock,
		yield: make(chan *Task),
		done:  make(chan struct{}),
	}
}

// CreateTask registers a task. It must be called before Start.
func (s *Scheduler) CreateTask(name string, priority uint8, entry func(*Task)) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, ErrStarted
	}
	t := &Task{
		name:     name,
		priority: priority,
		entry:    entry,
		s:        s,
		state:    Created,
		run:      make(chan struct{}),
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

// Tasks returns the registered tasks in creation order.
func (s *Scheduler) Tasks() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Task(nil), s.tasks...)
}

// Tick returns the current tick count.
func (s *Scheduler) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Start runs the tasks until ctx is done or every task has returned. It
// returns ctx.Err() in the first case and nil in the second. Tasks still
// blocked when ctx ends are unwound before Start returns.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrStarted
	}
	if len(s.tasks) == 0 {
		s.mu.Unlock()
		return ErrNoTasks
	}
	s.started = true
	for _, t := range s.tasks {
		s.makeReady(t)
		s.wg.Add(1)
		go t.main()
	}
	s.mu.Unlock()

	err := s.dispatch(ctx)
	close(s.done)
	s.wg.Wait()
	return err
}

func (s *Scheduler) dispatch(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.Lock()
		s.wakeDue()
		t := s.popReady()
		var idle uint64
		if t == nil {
			if s.sleeping == nil {
				s.mu.Unlock()
				return nil
			}
			idle = s.sleeping.wake - s.tick
		} else {
			t.state = Running
		}
		s.mu.Unlock()

		if t == nil {
			if err := s.clock.Sleep(ctx, idle); err != nil {
				return err
			}
			s.mu.Lock()
			s.tick += idle
			s.mu.Unlock()
			continue
		}

		t.run <- struct{}{}
		<-s.yield
	}
}

// makeReady queues t behind every ready task of equal or higher priority.
// Lock held.
func (s *Scheduler) makeReady(t *Task) {
	t.state = Ready
	i := len(s.ready)
	for i > 0 && s.ready[i-1].priority < t.priority {
		i--
	}
	s.ready = append(s.ready, nil)
	copy(s.ready[i+1:], s.ready[i:])
	s.ready[i] = t
}

// popReady removes the first ready task. Lock held.
func (s *Scheduler) popReady() *Task {
	if len(s.ready) == 0 {
		return nil
	}
	t := s.ready[0]
	s.ready[0] = nil
	s.ready = s.ready[1:]
	return t
}

// insertSleeping inserts t in wake order, after tasks with the same wake
// tick. Lock held.
func (s *Scheduler) insertSleeping(t *Task) {
	if s.sleeping == nil || t.wake < s.sleeping.wake {
		t.next = s.sleeping
		s.sleeping = t
		return
	}
	cur := s.sleeping
	for cur.next != nil && cur.next.wake <= t.wake {
		cur = cur.next
	}
	t.next = cur.next
	cur.next = t
}

// wakeDue moves every task whose wake tick has passed to the ready queue.
// Lock held.
func (s *Scheduler) wakeDue() {
	for s.sleeping != nil && s.sleeping.wake <= s.tick {
		t := s.sleeping
		s.sleeping = t.next
		t.next = nil
		s.makeReady(t)
	}
}
