package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	keyCtrlC        = 0x03
	keyCtrlD        = 0x04
	keyCtrlRBracket = 0x1D
)

// rawStdin puts the terminal on stdin in raw mode and returns the function
// that restores it.
func rawStdin() (func(), error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}
	return func() { _ = term.Restore(fd, old) }, nil
}

// quitReader passes bytes through until one of the quit keys, which raw
// mode no longer turns into signals, then reports io.EOF.
type quitReader struct {
	r    io.Reader
	done bool
}

func (q *quitReader) Read(p []byte) (int, error) {
	if q.done {
		return 0, io.EOF
	}
	n, err := q.r.Read(p)
	for i := 0; i < n; i++ {
		switch p[i] {
		case keyCtrlC, keyCtrlD, keyCtrlRBracket:
			q.done = true
			if i == 0 {
				return 0, io.EOF
			}
			return i, nil
		}
	}
	return n, err
}
