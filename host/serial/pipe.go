package serial

import "io"

// PipePort is one end of an in-process serial link. Bytes written on one
// end are read on the other. Writes block until the peer reads them.
type PipePort struct {
	r *io.PipeReader
	w *io.PipeWriter
}

// Pipe returns the two ends of a link: host for the console side and
// device for the (simulated) board side.
func Pipe() (host, device *PipePort) {
	hr, dw := io.Pipe()
	dr, hw := io.Pipe()
	return &PipePort{r: hr, w: hw}, &PipePort{r: dr, w: dw}
}

// Read reads bytes written by the peer
func (p *PipePort) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

// Write sends bytes to the peer
func (p *PipePort) Write(b []byte) (int, error) {
	return p.w.Write(b)
}

// Close shuts both directions. The peer's reads then fail with
// io.ErrClosedPipe rather than io.EOF, which native ports report on a read
// timeout.
func (p *PipePort) Close() error {
	p.w.CloseWithError(io.ErrClosedPipe)
	return p.r.CloseWithError(io.ErrClosedPipe)
}

// Flush is a no-op; nothing is buffered
func (p *PipePort) Flush() error {
	return nil
}
