package core

import "bluepill/regs"

// Pin identifies a GPIO pin by bank and index within the bank (0-15).
type Pin struct {
	Bank  regs.Bank
	Index uint8
}

// Pins used by the Blue Pill board.
var (
	PA9  = Pin{Bank: regs.BankA, Index: 9}  // USART1 TX
	PA10 = Pin{Bank: regs.BankA, Index: 10} // USART1 RX
	PC13 = Pin{Bank: regs.BankC, Index: 13} // on-board LED, active low
)

// String returns the conventional name, e.g. "PC13".
func (p Pin) String() string {
	return "P" + string(rune('A'+p.Bank)) + utoa(uint32(p.Index))
}

// PinMode is the 4-bit configuration field of a pin, CNF<<2 | MODE.
type PinMode uint8

const (
	InputAnalog   PinMode = 0x0
	InputFloating PinMode = 0x4
	InputPull     PinMode = 0x8 // pull direction comes from ODR

	OutputPushPull10MHz PinMode = 0x1
	OutputPushPull      PinMode = 0x2 // 2 MHz
	OutputPushPull50MHz PinMode = 0x3
	OutputOpenDrain     PinMode = 0x6 // 2 MHz

	AltPushPull  PinMode = 0xB // 50 MHz
	AltOpenDrain PinMode = 0xF // 50 MHz
)

// CNF returns the two configuration bits of the mode.
func (m PinMode) CNF() uint8 { return uint8(m>>2) & 0x3 }

// Speed returns the two MODE bits; zero means the pin is an input.
func (m PinMode) Speed() uint8 { return uint8(m) & 0x3 }

// IsOutput reports whether the mode drives the pin.
func (m PinMode) IsOutput() bool { return m.Speed() != 0 }
