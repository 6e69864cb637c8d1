package core

import "bluepill/regs"

// Port drives one GPIO bank. Its clock must be enabled through a ClockGate
// first; until then the hardware ignores every write.
//
// All methods are direct register accesses. Configure, Toggle and the
// bit-level helpers are read-modify-write sequences, so callers sharing a
// bank between tasks must serialize them.
type Port struct {
	bank regs.Bank
	regs *regs.GPIO
}

// NewPort wraps the registers of bank b.
func NewPort(b regs.Bank, g *regs.GPIO) *Port {
	return &Port{bank: b, regs: g}
}

// Bank returns the bank this port drives.
func (p *Port) Bank() regs.Bank {
	return p.bank
}

// configField returns the register holding the config nibble of pin index
// and the nibble's bit offset. index is taken modulo 16.
func (p *Port) configField(index uint8) (regs.Register, uint8) {
	index &= 0xF
	if index < 8 {
		return p.regs.CRL, 4 * index
	}
	return p.regs.CRH, 4 * (index - 8)
}

// Configure writes mode into the config nibble of pin index. The other 28
// bits of the config register keep their values. The new nibble lands in a
// single register write.
func (p *Port) Configure(index uint8, mode PinMode) {
	cr, shift := p.configField(index)
	cr.ReplaceBits(uint32(mode)&0xF, 0xF, shift)
}

// Mode reads back the config nibble of pin index.
func (p *Port) Mode(index uint8) PinMode {
	cr, shift := p.configField(index)
	return PinMode(cr.Get()>>shift) & 0xF
}

// Toggle inverts output bit index. Toggling twice restores the register.
func (p *Port) Toggle(index uint8) {
	bit := uint32(1) << (index & 0xF)
	p.regs.ODR.Set(p.regs.ODR.Get() ^ bit)
}

// Set drives output bit index to level through the set/reset register, so
// no other output bit is touched.
func (p *Port) Set(index uint8, level bool) {
	bit := uint32(1) << (index & 0xF)
	if level {
		p.regs.BSRR.Set(bit)
	} else {
		p.regs.BSRR.Set(bit << 16)
	}
}

// High drives output bit index high.
func (p *Port) High(index uint8) {
	p.Set(index, true)
}

// Low drives output bit index low.
func (p *Port) Low(index uint8) {
	p.Set(index, false)
}

// Output reports the latched output bit of pin index.
func (p *Port) Output(index uint8) bool {
	return p.regs.ODR.HasBits(uint32(1) << (index & 0xF))
}

// Get reports the sampled input level of pin index.
func (p *Port) Get(index uint8) bool {
	return p.regs.IDR.HasBits(uint32(1) << (index & 0xF))
}
