package board

import (
	"errors"
	"time"

	"bluepill/core"
)

// ErrSplitUART is returned when TX and RX are on different banks.
var ErrSplitUART = errors.New("board: UART TX and RX must share a GPIO bank")

// Config describes how the board is wired and clocked.
type Config struct {
	ClockHz uint32 // APB2 bus clock
	Baud    uint32

	LED          core.Pin
	LEDActiveLow bool

	TX core.Pin
	RX core.Pin

	// SettleSpins is the busy-wait after every clock enable. Zero means
	// no settle delay.
	SettleSpins uint32

	// Settle is a calibrated wait after every clock enable. It takes
	// precedence over SettleSpins when positive.
	Settle time.Duration
}

// DefaultConfig returns the Blue Pill wiring: 8 MHz HSI, 115200 baud,
// active-low LED on PC13 and USART1 on PA9/PA10.
func DefaultConfig() Config {
	return Config{
		ClockHz:      8000000,
		Baud:         core.DefaultBaud,
		LED:          core.PC13,
		LEDActiveLow: true,
		TX:           core.PA9,
		RX:           core.PA10,
	}
}

// applyDefaults fills zero fields with default values. The pinout
// defaults as a whole: when LED, TX and RX are all zero the board gets the
// Blue Pill wiring, otherwise LED is taken as given (PA0 is a valid LED
// pin) and only an all-zero UART pair is defaulted.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.ClockHz == 0 {
		c.ClockHz = def.ClockHz
	}
	if c.Baud == 0 {
		c.Baud = def.Baud
	}
	var zero core.Pin
	if c.LED == zero && c.TX == zero && c.RX == zero {
		c.LED, c.LEDActiveLow = def.LED, def.LEDActiveLow
	}
	if c.TX == zero && c.RX == zero {
		c.TX, c.RX = def.TX, def.RX
	}
}
