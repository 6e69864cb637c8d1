package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"bluepill/host/profile"
	"bluepill/protocol"
)

// syncBuffer is a bytes.Buffer safe for one writer and one poller
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func withIterations(t *testing.T, n int) {
	t.Helper()
	saved := simOpts
	simOpts.iterations = n
	simOpts.virtual = true
	t.Cleanup(func() { simOpts = saved })
}

func TestSimHello(t *testing.T) {
	withIterations(t, 2)
	var out bytes.Buffer

	if err := runSim(context.Background(), profile.Default(), "hello", nil, &out); err != nil {
		t.Fatalf("runSim failed: %v", err)
	}
	if !strings.HasSuffix(out.String(), "Count: 0\r\nHello World! Count: 1\r\n") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestSimBlinkReportsLED(t *testing.T) {
	withIterations(t, 4)
	var out bytes.Buffer

	if err := runSim(context.Background(), profile.Default(), "blink", nil, &out); err != nil {
		t.Fatalf("runSim failed: %v", err)
	}
	want := "[PC13 off]\n[PC13 on]\n[PC13 off]\n[PC13 on]\n"
	if out.String() != want {
		t.Errorf("Expected %q, got %q", want, out.String())
	}
}

func TestSimRTOS(t *testing.T) {
	withIterations(t, 2)
	var out bytes.Buffer

	if err := runSim(context.Background(), profile.Default(), "rtos", nil, &out); err != nil {
		t.Fatalf("runSim failed: %v", err)
	}
	if out.String() != "[PC13 off]\n[PC13 on]\n" {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestSimEcho(t *testing.T) {
	withIterations(t, 0)
	in, feed := io.Pipe()
	out := &syncBuffer{}

	done := make(chan error, 1)
	go func() {
		done <- runSim(context.Background(), profile.Default(), "echo", in, out)
	}()

	feed.Write([]byte("hi\r"))
	deadline := time.Now().Add(5 * time.Second)
	for !strings.HasSuffix(out.String(), "hi\r\n") {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for echo, got %q", out.String())
		}
		time.Sleep(time.Millisecond)
	}
	feed.Close()

	if err := <-done; err != nil {
		t.Errorf("runSim failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "STM32F103C8T6 UART Echo Ready\r\n") {
		t.Errorf("Expected banner, got %q", out.String())
	}
}

func TestSimUnknownApp(t *testing.T) {
	err := runSim(context.Background(), profile.Default(), "nope", nil, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "unknown application") {
		t.Errorf("Expected unknown application error, got %v", err)
	}
}

func TestCheckSimulatedHello(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c := simConsole(ctx, 3)
	defer c.Close()

	var out bytes.Buffer
	if err := checkHello(ctx, c, 3, &out); err != nil {
		t.Fatalf("checkHello failed: %v", err)
	}
	if out.String() != "ok: 3 lines, last count 2\n" {
		t.Errorf("Unexpected report %q", out.String())
	}
}

func TestCheckReportsShortStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c := simConsole(ctx, 2)
	defer c.Close()

	err := checkHello(ctx, c, 3, io.Discard)
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("Expected closed stream after 2 lines, got %v", err)
	}
}

func TestFlashArgs(t *testing.T) {
	p := profile.Default()
	argv, err := flashArgs(p, "blink")
	if err != nil {
		t.Fatalf("flashArgs failed: %v", err)
	}
	want := []string{"tinygo", "flash", "-target", "bluepill", "-ldflags", "-X main.mode=blink", "./targets/bluepill"}
	if strings.Join(argv, "|") != strings.Join(want, "|") {
		t.Errorf("Expected %q, got %q", want, argv)
	}

	if _, err := flashArgs(p, "nope"); err == nil {
		t.Error("Expected error for unknown app")
	}
	p.Flash = `st-flash "unterminated`
	if _, err := flashArgs(p, "blink"); err == nil {
		t.Error("Expected error for bad quoting")
	}
}

func TestBaudReport(t *testing.T) {
	var out bytes.Buffer
	baudReport(&out, 8000000, []uint32{115200, 9600, 16000000})

	got := out.String()
	for _, want := range []string{
		"clock 8000000 Hz",
		"brr=69",
		"error=+0.64%",
		"brr=833",
		"unreachable",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in report:\n%s", want, got)
		}
	}
}

func TestQuitReader(t *testing.T) {
	q := &quitReader{r: strings.NewReader("ab\x1dcd")}
	data, err := io.ReadAll(q)
	if err != nil || string(data) != "ab" {
		t.Errorf("Expected \"ab\", got %q, %v", data, err)
	}
}

func TestLinesMatchChecker(t *testing.T) {
	// the banner the firmware prints must pass the checker untouched
	lb := protocol.NewLineBuffer(256)
	lb.Write(protocol.TranslateNewlines([]byte("\n===\n  STM32F103 Serial Hello World\n===\n\nHello World! Count: 7\n")))
	var h protocol.HelloChecker
	for {
		line, ok := lb.Next()
		if !ok {
			break
		}
		if err := h.Check(line); err != nil {
			t.Fatalf("Check(%q) failed: %v", line.Text, err)
		}
	}
	if h.Last() != 7 {
		t.Errorf("Expected last 7, got %d", h.Last())
	}
}
