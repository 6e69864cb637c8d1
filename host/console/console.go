// Package console is the host side of a serial link to the board: it
// frames the byte stream into lines and sends text the way the firmware
// does.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"bluepill/host/serial"
	"bluepill/protocol"
)

const lineBufferSize = 512

// Console represents a connection to a board running one of the firmware
// applications
type Console struct {
	port  serial.Port
	lines *protocol.LineBuffer
	buf   [256]byte

	idleEOF   bool // io.EOF with no data is a read timeout
	connected bool
}

// New wraps an open port
func New(port serial.Port) *Console {
	return &Console{
		port:      port,
		lines:     protocol.NewLineBuffer(lineBufferSize),
		idleEOF:   serial.ReadTimeout(port) > 0,
		connected: true,
	}
}

// Dial opens the serial device described by cfg
func Dial(cfg *serial.Config) (*Console, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush serial port: %w", err)
	}
	return New(port), nil
}

// Close closes the connection
func (c *Console) Close() error {
	if !c.connected {
		return nil
	}
	c.connected = false
	return c.port.Close()
}

// IsConnected returns whether the console is connected
func (c *Console) IsConnected() bool {
	return c.connected
}

// Send writes s with every '\n' sent as "\r\n"
func (c *Console) Send(s string) error {
	if !c.connected {
		return fmt.Errorf("not connected")
	}
	if _, err := c.port.Write(protocol.TranslateNewlines([]byte(s))); err != nil {
		return fmt.Errorf("failed to send: %w", err)
	}
	return nil
}

// ReadLine blocks until a full line has arrived or ctx is done. A port
// opened with a read timeout reports an idle line as io.EOF; that only
// means no data yet. On other ports io.EOF ends the stream.
func (c *Console) ReadLine(ctx context.Context) (protocol.Line, error) {
	if !c.connected {
		return protocol.Line{}, fmt.Errorf("not connected")
	}
	for {
		if line, ok := c.lines.Next(); ok {
			return line, nil
		}
		if c.lines.Full() {
			return protocol.Line{}, fmt.Errorf("%w: %d bytes without a line feed",
				protocol.ErrBadLine, len(c.lines.Drain()))
		}
		if err := ctx.Err(); err != nil {
			return protocol.Line{}, err
		}

		n, err := c.port.Read(c.buf[:min(len(c.buf), c.lines.Free())])
		c.lines.Write(c.buf[:n])
		if err != nil && !(c.idleEOF && errors.Is(err, io.EOF) && n == 0) {
			return protocol.Line{}, fmt.Errorf("failed to read: %w", err)
		}
	}
}

// Lines calls fn for every received line until fn or a read fails, or
// ctx is done
func (c *Console) Lines(ctx context.Context, fn func(protocol.Line) error) error {
	for {
		line, err := c.ReadLine(ctx)
		if err != nil {
			return err
		}
		if err := fn(line); err != nil {
			return err
		}
	}
}
