package sched

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

func TestStartWithoutTasks(t *testing.T) {
	s := New(VirtualClock{})
	if err := s.Start(context.Background()); !errors.Is(err, ErrNoTasks) {
		t.Errorf("Expected ErrNoTasks, got %v", err)
	}
}

func TestStartReturnsWhenTasksFinish(t *testing.T) {
	s := New(VirtualClock{})
	var ran []string
	for _, name := range []string{"a", "b"} {
		name := name
		if _, err := s.CreateTask(name, 1, func(*Task) { ran = append(ran, name) }); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !reflect.DeepEqual(ran, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", ran)
	}
	for _, task := range s.Tasks() {
		if task.State() != Terminated {
			t.Errorf("Expected %s terminated, got %v", task.Name(), task.State())
		}
	}
}

func TestStartTwice(t *testing.T) {
	s := New(VirtualClock{})
	s.CreateTask("only", 1, func(*Task) {})
	s.Start(context.Background())

	if err := s.Start(context.Background()); !errors.Is(err, ErrStarted) {
		t.Errorf("Expected ErrStarted, got %v", err)
	}
	if _, err := s.CreateTask("late", 1, func(*Task) {}); !errors.Is(err, ErrStarted) {
		t.Errorf("Expected ErrStarted, got %v", err)
	}
}

func TestHigherPriorityRunsFirst(t *testing.T) {
	s := New(VirtualClock{})
	var order []string
	s.CreateTask("low", 1, func(*Task) { order = append(order, "low") })
	s.CreateTask("high", 3, func(*Task) { order = append(order, "high") })
	s.CreateTask("mid", 2, func(*Task) { order = append(order, "mid") })

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"high", "mid", "low"}) {
		t.Errorf("Expected [high mid low], got %v", order)
	}
}

func TestYieldRoundRobinsEqualPriority(t *testing.T) {
	s := New(VirtualClock{})
	var order []string
	for _, name := range []string{"a", "b"} {
		name := name
		s.CreateTask(name, 1, func(task *Task) {
			for i := 0; i < 3; i++ {
				order = append(order, fmt.Sprintf("%s%d", name, i))
				task.Yield()
			}
		})
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	want := []string{"a0", "b0", "a1", "b1", "a2", "b2"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected %v, got %v", want, order)
	}
}

func TestDelayAdvancesTicks(t *testing.T) {
	s := New(VirtualClock{})
	var seen []uint64
	s.CreateTask("sleeper", 1, func(task *Task) {
		seen = append(seen, task.Now())
		task.Delay(500)
		seen = append(seen, task.Now())
		task.Delay(0)
		task.Delay(1000)
		seen = append(seen, task.Now())
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !reflect.DeepEqual(seen, []uint64{0, 500, 1500}) {
		t.Errorf("Expected [0 500 1500], got %v", seen)
	}
}

func TestDelayInterleavesTasks(t *testing.T) {
	s := New(VirtualClock{})
	type event struct {
		name string
		tick uint64
	}
	var events []event
	s.CreateTask("fast", 1, func(task *Task) {
		for i := 0; i < 4; i++ {
			task.Delay(500)
			events = append(events, event{"fast", task.Now()})
		}
	})
	s.CreateTask("slow", 1, func(task *Task) {
		for i := 0; i < 2; i++ {
			task.Delay(1000)
			events = append(events, event{"slow", task.Now()})
		}
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	want := []event{
		{"fast", 500},
		{"slow", 1000}, // slept first, so wakes first
		{"fast", 1000},
		{"fast", 1500},
		{"slow", 2000},
		{"fast", 2000},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("Expected %v, got %v", want, events)
	}
	if got := s.Tick(); got != 2000 {
		t.Errorf("Expected tick 2000, got %d", got)
	}
}

func TestCancelUnwindsBlockedTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(VirtualClock{})
	var forever *Task
	forever, _ = s.CreateTask("forever", 1, func(task *Task) {
		for {
			task.Delay(10)
		}
	})
	s.CreateTask("stopper", 2, func(task *Task) {
		task.Delay(100)
		cancel()
		task.Delay(100)
	})

	if err := s.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if got := s.Tick(); got != 100 {
		t.Errorf("Expected tick 100, got %d", got)
	}
	if forever.State() != Terminated {
		t.Errorf("Expected unwound task terminated, got %v", forever.State())
	}
}

func TestRealClockSleeps(t *testing.T) {
	start := time.Now()
	if err := (RealClock{}).Sleep(context.Background(), 20); err != nil {
		t.Fatalf("Sleep failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Expected at least 20ms, got %v", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (RealClock{}).Sleep(ctx, 1000000); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCritical(t *testing.T) {
	n := 0
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			for j := 0; j < 1000; j++ {
				Critical(func() { n++ })
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
	if n != 4000 {
		t.Errorf("Expected 4000, got %d", n)
	}
}

func TestStateString(t *testing.T) {
	if Blocked.String() != "blocked" {
		t.Errorf("Expected blocked, got %s", Blocked)
	}
}
