package core

import "bluepill/regs"

// Peripheral is a set of clock enable bits in RCC_APB2ENR. Values may be
// OR'ed together to gate several peripherals at once.
type Peripheral uint32

const (
	AFIO   Peripheral = regs.RCC_APB2ENR_AFIOEN
	IOPA   Peripheral = regs.RCC_APB2ENR_IOPAEN
	IOPB   Peripheral = regs.RCC_APB2ENR_IOPBEN
	IOPC   Peripheral = regs.RCC_APB2ENR_IOPCEN
	USART1 Peripheral = regs.RCC_APB2ENR_USART1EN
)

// BankClock returns the clock enable bit feeding a GPIO bank.
func BankClock(b regs.Bank) Peripheral {
	switch b {
	case regs.BankA:
		return IOPA
	case regs.BankB:
		return IOPB
	default:
		return IOPC
	}
}

// ClockGate controls the APB2 peripheral clocks. A peripheral ignores
// register writes until its clock is enabled, so Enable must run before any
// Port or USART call that targets it.
type ClockGate struct {
	enr    regs.Register
	settle func()
}

// NewClockGate returns a gate over rcc. settle, if non-nil, runs after every
// Enable to give the peripheral time to come out of gating; nil means no
// delay.
func NewClockGate(rcc *regs.RCC, settle func()) *ClockGate {
	return &ClockGate{enr: rcc.APB2ENR, settle: settle}
}

// Enable sets the clock enable bits of p, leaving all other bits alone.
// Calling it again for an enabled peripheral is harmless.
func (c *ClockGate) Enable(p Peripheral) {
	c.enr.SetBits(uint32(p))
	if c.settle != nil {
		c.settle()
	}
	if IsDebugEnabled() {
		DebugPrintln("rcc: enable " + hex32(uint32(p)))
	}
}

// Disable gates the clocks of p off again.
func (c *ClockGate) Disable(p Peripheral) {
	c.enr.ClearBits(uint32(p))
	if IsDebugEnabled() {
		DebugPrintln("rcc: disable " + hex32(uint32(p)))
	}
}

// Enabled reports whether every clock in p is running.
func (c *ClockGate) Enabled(p Peripheral) bool {
	return c.enr.Get()&uint32(p) == uint32(p)
}
