package serial

import (
	"io"
	"time"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Pipes into a simulated board (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread input and unsent output
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate; must match the firmware (115200 unless rebuilt)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the settings matching the firmware's USART1
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}

// ReadTimeout returns the read timeout p was opened with, or 0 when reads
// block until data arrives. Only a port with a timeout reports an idle
// line as (0, io.EOF); on any other port io.EOF is final.
func ReadTimeout(p Port) time.Duration {
	if c, ok := p.(interface{ Config() Config }); ok {
		return time.Duration(c.Config().ReadTimeout) * time.Millisecond
	}
	return 0
}
