package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// HelloPrefix starts every counted line of the hello application.
const HelloPrefix = "Hello World! Count: "

var (
	// ErrBadLine is returned for a line that does not belong to the stream.
	ErrBadLine = errors.New("protocol: malformed line")

	// ErrCountGap is returned when a counter does not follow its
	// predecessor.
	ErrCountGap = errors.New("protocol: counter gap")
)

// ParseHello extracts the counter of a hello line.
func ParseHello(text string) (uint32, error) {
	digits, ok := strings.CutPrefix(text, HelloPrefix)
	if !ok || digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrBadLine, text)
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrBadLine, text, err)
	}
	return uint32(n), nil
}

// isBanner reports whether text is part of the hello banner.
func isBanner(text string) bool {
	switch strings.TrimSpace(text) {
	case "", "STM32F103 Serial Hello World":
		return true
	}
	return strings.Trim(text, "=") == ""
}

// HelloChecker validates a hello stream line by line. The first counted
// line may carry any value, since a monitor can attach mid-stream; every
// later one must be its predecessor plus one, wrapping at 2^32.
type HelloChecker struct {
	last    uint32
	counted int
}

// Check validates one line. Banner lines are accepted until the first
// counted line.
func (h *HelloChecker) Check(l Line) error {
	if !l.CRLF {
		return fmt.Errorf("%w: missing carriage return: %q", ErrBadLine, l.Text)
	}
	if h.counted == 0 && isBanner(l.Text) {
		return nil
	}
	n, err := ParseHello(l.Text)
	if err != nil {
		return err
	}
	if h.counted > 0 && n != h.last+1 {
		return fmt.Errorf("%w: got %d after %d", ErrCountGap, n, h.last)
	}
	h.last = n
	h.counted++
	return nil
}

// Counted returns the number of counted lines accepted so far.
func (h *HelloChecker) Counted() int {
	return h.counted
}

// Last returns the most recent counter value.
func (h *HelloChecker) Last() uint32 {
	return h.last
}
