package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"bluepill/host/serial"
	"bluepill/protocol"
)

// scriptedPort replays reads and records writes. An empty chunk is a read
// that returns (0, io.EOF).
type scriptedPort struct {
	reads   []string
	writes  strings.Builder
	closed  bool
	timeout int // read timeout in milliseconds
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	chunk := p.reads[0]
	if chunk == "" {
		// read timeout on a native port
		p.reads = p.reads[1:]
		return 0, io.EOF
	}
	n := copy(b, chunk)
	if n < len(chunk) {
		p.reads[0] = chunk[n:]
	} else {
		p.reads = p.reads[1:]
	}
	return n, nil
}

func (p *scriptedPort) Write(b []byte) (int, error) { return p.writes.Write(b) }
func (p *scriptedPort) Close() error                { p.closed = true; return nil }
func (p *scriptedPort) Flush() error                { return nil }

func (p *scriptedPort) Config() serial.Config {
	return serial.Config{ReadTimeout: p.timeout}
}

func TestReadLineAcrossChunksAndTimeouts(t *testing.T) {
	port := &scriptedPort{reads: []string{"Hel", "", "lo\r", "\nnext\r\n"}, timeout: 100}
	c := New(port)

	line, err := c.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != (protocol.Line{Text: "Hello", CRLF: true}) {
		t.Errorf("Expected CRLF line \"Hello\", got %+v", line)
	}
	line, _ = c.ReadLine(context.Background())
	if line.Text != "next" {
		t.Errorf("Expected \"next\", got %q", line.Text)
	}
	if _, err := c.ReadLine(context.Background()); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected read error, got %v", err)
	}
}

func TestReadLineTooLong(t *testing.T) {
	port := &scriptedPort{reads: []string{strings.Repeat("x", 2*lineBufferSize)}}
	c := New(port)
	if _, err := c.ReadLine(context.Background()); !errors.Is(err, protocol.ErrBadLine) {
		t.Errorf("Expected ErrBadLine, got %v", err)
	}
}

func TestReadLineHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(&scriptedPort{})
	if _, err := c.ReadLine(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSendTranslatesNewlines(t *testing.T) {
	port := &scriptedPort{}
	c := New(port)
	if err := c.Send("a\nb\n"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := port.writes.String(); got != "a\r\nb\r\n" {
		t.Errorf("Expected %q, got %q", "a\r\nb\r\n", got)
	}
}

func TestClose(t *testing.T) {
	port := &scriptedPort{}
	c := New(port)
	c.Close()
	if !port.closed || c.IsConnected() {
		t.Error("Expected closed port and disconnected console")
	}
	if err := c.Send("x"); err == nil {
		t.Error("Expected error sending on closed console")
	}
}

func TestLinesOverPipe(t *testing.T) {
	host, device := serial.Pipe()
	go func() {
		device.Write([]byte("one\r\ntwo\r\n"))
		device.Close()
	}()

	var got []string
	err := New(host).Lines(context.Background(), func(l protocol.Line) error {
		got = append(got, l.Text)
		return nil
	})
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("Expected io.ErrClosedPipe, got %v", err)
	}
	if strings.Join(got, ",") != "one,two" {
		t.Errorf("Expected [one two], got %v", got)
	}
}

func TestReadLineEOFIsFinalWithoutTimeout(t *testing.T) {
	port := &scriptedPort{reads: []string{"one\r\n", "", "never"}}
	c := New(port)

	if line, err := c.ReadLine(context.Background()); err != nil || line.Text != "one" {
		t.Fatalf("Expected \"one\", got %+v, %v", line, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := c.ReadLine(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF, got %v", err)
	}
	if len(port.reads) != 1 {
		t.Errorf("Expected reading to stop at EOF, %d chunks left", len(port.reads))
	}
}
