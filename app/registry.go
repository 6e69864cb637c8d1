package app

import (
	"context"

	"golang.org/x/exp/slices"

	"bluepill/board"
	"bluepill/sched"
)

// Options tunes a registered application run.
type Options struct {
	// Iterations bounds the main loop (toggles or lines). Zero means
	// forever. Echo ignores it.
	Iterations int
	// Clock drives the RTOS scheduler. Nil means wall-clock time.
	Clock sched.Clock
}

// App is a registered firmware application.
type App struct {
	Name    string
	Summary string
	Run     func(ctx context.Context, b *board.Board, opt Options) error
}

var registry = []App{
	{
		Name:    "blink",
		Summary: "toggle the LED with a busy-wait",
		Run: func(ctx context.Context, b *board.Board, opt Options) error {
			return Blink(ctx, b, opt.Iterations)
		},
	},
	{
		Name:    "hello",
		Summary: "print a counted greeting on USART1",
		Run: func(ctx context.Context, b *board.Board, opt Options) error {
			return Hello(ctx, b, opt.Iterations)
		},
	},
	{
		Name:    "echo",
		Summary: "echo USART1 input back",
		Run: func(ctx context.Context, b *board.Board, opt Options) error {
			return Echo(ctx, b)
		},
	},
	{
		Name:    "rtos",
		Summary: "blink the LED from a scheduled task",
		Run: func(ctx context.Context, b *board.Board, opt Options) error {
			return RTOSBlink(ctx, b, sched.New(opt.Clock), opt.Iterations)
		},
	},
}

// Lookup finds a registered application by name.
func Lookup(name string) (App, bool) {
	i := slices.IndexFunc(registry, func(a App) bool { return a.Name == name })
	if i < 0 {
		return App{}, false
	}
	return registry[i], true
}

// Names returns the registered application names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, a := range registry {
		names = append(names, a.Name)
	}
	slices.Sort(names)
	return names
}
