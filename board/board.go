// Package board wires the core drivers to the Blue Pill: one clock gate,
// the LED port and USART1.
package board

import (
	"bluepill/core"
	"bluepill/regs"
)

// Board holds the drivers of one chip. It is built once and owned by the
// application; the drivers inside are not safe for concurrent use.
type Board struct {
	Config Config
	Clocks *core.ClockGate
	LED    *core.Port
	UART   *core.USART
}

// New builds a board over dev. Zero fields of cfg take their defaults.
func New(dev *regs.Device, cfg Config) (*Board, error) {
	cfg.applyDefaults()
	if cfg.TX.Bank != cfg.RX.Bank {
		return nil, ErrSplitUART
	}

	settle := core.SettleSpins(cfg.SettleSpins)
	if cfg.Settle > 0 {
		settle = core.SettleFor(cfg.Settle)
	}
	clocks := core.NewClockGate(&dev.RCC, settle)
	b := &Board{
		Config: cfg,
		Clocks: clocks,
		LED:    core.NewPort(cfg.LED.Bank, dev.GPIO(cfg.LED.Bank)),
		UART: core.NewUSART(core.USARTConfig{
			Regs:   &dev.USART1,
			Clocks: clocks,
			Gate:   core.USART1,
			Pins:   core.NewPort(cfg.TX.Bank, dev.GPIO(cfg.TX.Bank)),
			TX:     cfg.TX.Index,
			RX:     cfg.RX.Index,
		}),
	}
	return b, nil
}

// InitLED clocks the LED bank and makes the LED pin a 2 MHz push-pull
// output. The output level is left as it is.
func (b *Board) InitLED() {
	b.Clocks.Enable(core.BankClock(b.Config.LED.Bank))
	b.LED.Configure(b.Config.LED.Index, core.OutputPushPull)
}

// InitSerial configures USART1 at the configured baud rate.
func (b *Board) InitSerial() {
	b.UART.Configure(b.Config.Baud, b.Config.ClockHz)
}

// ToggleLED inverts the LED output.
func (b *Board) ToggleLED() {
	b.LED.Toggle(b.Config.LED.Index)
}

// SetLED turns the LED on or off, honoring its polarity.
func (b *Board) SetLED(on bool) {
	b.LED.Set(b.Config.LED.Index, on != b.Config.LEDActiveLow)
}

// LEDLit reports whether the LED is currently on.
func (b *Board) LEDLit() bool {
	return b.LED.Output(b.Config.LED.Index) != b.Config.LEDActiveLow
}

// DebugWriter returns a debug sink that prints each line on USART1 with a
// CRLF terminator. Lines emitted before the USART is configured are
// dropped, since SendByte would spin forever on an unclocked transmitter.
func (b *Board) DebugWriter() core.DebugWriter {
	return func(s string) {
		if b.UART.State() == core.Unconfigured {
			return
		}
		b.UART.WriteString(s)
		b.UART.WriteString("\r\n")
	}
}
