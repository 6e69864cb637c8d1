// Package protocol frames and checks the text streams the firmware
// applications emit on USART1: CRLF-terminated lines, newline translation
// and the counted hello stream.
package protocol

import "bytes"

// FifoBuffer is a circular byte buffer for serial input
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a FifoBuffer holding up to capacity-1 bytes
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data and returns how many bytes fit
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		nextWrite := (f.write + 1) % f.size
		if nextWrite == f.read {
			break
		}
		f.buf[f.write] = b
		f.write = nextWrite
		written++
	}
	return written
}

// Read reads up to len(data) bytes from the front
func (f *FifoBuffer) Read(data []byte) int {
	read := 0
	for i := range data {
		if f.read == f.write {
			break
		}
		data[i] = f.buf[f.read]
		f.read = (f.read + 1) % f.size
		read++
	}
	return read
}

// Available returns the number of buffered bytes
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the room left for writing
func (f *FifoBuffer) Free() int {
	return f.size - f.Available() - 1
}

// Data returns the buffered bytes as one slice, copying when wrapped
func (f *FifoBuffer) Data() []byte {
	if f.read <= f.write {
		return f.buf[f.read:f.write]
	}
	result := make([]byte, f.Available())
	n := copy(result, f.buf[f.read:])
	copy(result[n:], f.buf[:f.write])
	return result
}

// Pop removes n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	if avail := f.Available(); n > avail {
		n = avail
	}
	f.read = (f.read + n) % f.size
}

// IsEmpty returns true if nothing is buffered
func (f *FifoBuffer) IsEmpty() bool {
	return f.read == f.write
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}

// Line is one received line without its terminator.
type Line struct {
	Text string
	CRLF bool // terminated by "\r\n" rather than a bare "\n"
}

// LineBuffer splits a serial byte stream into lines ending in '\n'.
type LineBuffer struct {
	fifo *FifoBuffer
}

// NewLineBuffer returns a LineBuffer that holds at most capacity-1 bytes
// of an unfinished line.
func NewLineBuffer(capacity int) *LineBuffer {
	return &LineBuffer{fifo: NewFifoBuffer(capacity)}
}

// Write buffers received bytes and returns how many fit.
func (l *LineBuffer) Write(p []byte) int {
	return l.fifo.Write(p)
}

// Next pops the next complete line, if any.
func (l *LineBuffer) Next() (Line, bool) {
	if l.fifo.IsEmpty() {
		return Line{}, false
	}
	data := l.fifo.Data()
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return Line{}, false
	}
	line := Line{Text: string(data[:i])}
	if i > 0 && data[i-1] == '\r' {
		line.Text = line.Text[:i-1]
		line.CRLF = true
	}
	l.fifo.Pop(i + 1)
	return line, true
}

// Full reports whether the buffer is full without holding a complete line.
// The caller must Drain it to make progress.
func (l *LineBuffer) Full() bool {
	return l.fifo.Free() == 0 && bytes.IndexByte(l.fifo.Data(), '\n') < 0
}

// Drain returns and discards everything buffered.
func (l *LineBuffer) Drain() []byte {
	data := make([]byte, l.fifo.Available())
	l.fifo.Read(data)
	l.fifo.Reset()
	return data
}

// Free returns how many more bytes Write accepts.
func (l *LineBuffer) Free() int {
	return l.fifo.Free()
}

// Pending returns the number of buffered bytes.
func (l *LineBuffer) Pending() int {
	return l.fifo.Available()
}
