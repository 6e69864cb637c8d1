package regs

import "sync"

// ReadHook may replace the value returned by a simulated read.
type ReadHook func(addr, value uint32) uint32

// WriteHook sees the stored and incoming value of a simulated write and
// returns the value to store. Returning keep=false drops the write.
type WriteHook func(addr, old, value uint32) (stored uint32, keep bool)

type ioRegion struct {
	start, end uint32
	onRead     ReadHook
	onWrite    WriteHook
}

// Bank names a GPIO port bank.
type Bank uint8

const (
	BankA Bank = iota
	BankB
	BankC
)

func (b Bank) String() string {
	return "GPIO" + string(rune('A'+b))
}

func (b Bank) base() uint32 {
	switch b {
	case BankA:
		return GPIOABase
	case BankB:
		return GPIOBBase
	default:
		return GPIOCBase
	}
}

func (b Bank) gate() uint32 {
	switch b {
	case BankA:
		return RCC_APB2ENR_IOPAEN
	case BankB:
		return RCC_APB2ENR_IOPBEN
	default:
		return RCC_APB2ENR_IOPCEN
	}
}

// OutputAddr returns the address of the output data register of bank b.
func OutputAddr(b Bank) uint32 {
	return b.base() + gpioODR
}

// GPIO returns the register block of bank b.
func (d *Device) GPIO(b Bank) *GPIO {
	switch b {
	case BankA:
		return &d.GPIOA
	case BankB:
		return &d.GPIOB
	default:
		return &d.GPIOC
	}
}

// Sim is an in-memory register file that stands in for the chip on the
// host. It models clock gating (writes to an unclocked block are dropped),
// the GPIO set/reset and input registers, and a USART with a controllable
// transmit-ready delay and a receive line.
//
// Hooks run with the Sim lock held and must not call back into the Sim.
type Sim struct {
	mu       sync.Mutex
	mem      map[uint32]uint32
	regions  []ioRegion
	inputs   map[Bank]uint32
	deferred []func()

	dev    *Device
	USART1 *SimUSART
}

// NewSim returns a simulated chip in its reset state.
func NewSim() *Sim {
	s := &Sim{
		mem:    make(map[uint32]uint32),
		inputs: make(map[Bank]uint32),
	}
	for _, b := range []Bank{BankA, BankB, BankC} {
		s.mem[b.base()+gpioCRL] = gpioCRReset
		s.mem[b.base()+gpioCRH] = gpioCRReset
		s.mapGPIO(b)
	}
	s.USART1 = newSimUSART(s, USART1Base, RCC_APB2ENR_USART1EN)
	s.dev = mapDevice(func(addr uint32) Register {
		return simRegister{sim: s, addr: addr}
	})
	return s
}

// Device returns the register blocks backed by this simulation.
func (s *Sim) Device() *Device { return s.dev }

// MapIO attaches hooks to the address range [start, end). Hooks of
// overlapping regions run in registration order.
func (s *Sim) MapIO(start, end uint32, onRead ReadHook, onWrite WriteHook) {
	s.mu.Lock()
	s.regions = append(s.regions, ioRegion{start: start, end: end, onRead: onRead, onWrite: onWrite})
	s.mu.Unlock()
}

// SetInput drives the external level seen on an input pin.
func (s *Sim) SetInput(b Bank, index uint8, high bool) {
	s.mu.Lock()
	if high {
		s.inputs[b] |= 1 << (index & 0xF)
	} else {
		s.inputs[b] &^= 1 << (index & 0xF)
	}
	s.mu.Unlock()
}

// read32 performs a simulated bus read.
func (s *Sim) read32(addr uint32) uint32 {
	s.mu.Lock()
	v := s.mem[addr]
	for i := range s.regions {
		r := &s.regions[i]
		if r.onRead != nil && addr >= r.start && addr < r.end {
			v = r.onRead(addr, v)
		}
	}
	s.mu.Unlock()
	return v
}

// write32 performs a simulated bus write.
func (s *Sim) write32(addr, value uint32) {
	s.mu.Lock()
	keep := true
	for i := range s.regions {
		r := &s.regions[i]
		if r.onWrite != nil && addr >= r.start && addr < r.end {
			value, keep = r.onWrite(addr, s.mem[addr], value)
			if !keep {
				break
			}
		}
	}
	if keep {
		s.mem[addr] = value
	}
	pending := s.deferred
	s.deferred = nil
	s.mu.Unlock()

	for _, f := range pending {
		f()
	}
}

// peek reads the stored value without running any hook.
func (s *Sim) peek(addr uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mem[addr]
}

// clocked reports whether the gate bits are set in APB2ENR. Lock held.
func (s *Sim) clocked(gate uint32) bool {
	return s.mem[RCCBase+rccAPB2ENR]&gate == gate
}

func (s *Sim) mapGPIO(b Bank) {
	base := b.base()
	s.regions = append(s.regions, ioRegion{
		start: base,
		end:   base + blockSize,
		onRead: func(addr, v uint32) uint32 {
			if addr-base != gpioIDR {
				return v
			}
			out := outputMask(s.mem[base+gpioCRL], s.mem[base+gpioCRH])
			return (s.mem[base+gpioODR]&out | s.inputs[b]&^out) & 0xFFFF
		},
		onWrite: func(addr, old, v uint32) (uint32, bool) {
			if !s.clocked(b.gate()) {
				return old, false
			}
			switch addr - base {
			case gpioIDR:
				return old, false
			case gpioODR:
				return v & 0xFFFF, true
			case gpioBSRR:
				odr := s.mem[base+gpioODR]
				// set wins over reset when both bits are written
				s.mem[base+gpioODR] = (odr&^(v>>16) | v) & 0xFFFF
				return 0, true
			case gpioBRR:
				s.mem[base+gpioODR] &^= v & 0xFFFF
				return 0, true
			}
			return v, true
		},
	})
}

// outputMask returns the pins whose MODE bits select an output.
func outputMask(crl, crh uint32) uint32 {
	var mask uint32
	for i := uint32(0); i < 8; i++ {
		if crl>>(4*i)&0x3 != 0 {
			mask |= 1 << i
		}
		if crh>>(4*i)&0x3 != 0 {
			mask |= 1 << (i + 8)
		}
	}
	return mask
}

// simRegister is one register of a Sim. The bit helpers are plain
// read-modify-write sequences, like their MMIO counterparts.
type simRegister struct {
	sim  *Sim
	addr uint32
}

func (r simRegister) Get() uint32      { return r.sim.read32(r.addr) }
func (r simRegister) Set(value uint32) { r.sim.write32(r.addr, value) }

func (r simRegister) SetBits(value uint32)   { r.Set(r.Get() | value) }
func (r simRegister) ClearBits(value uint32) { r.Set(r.Get() &^ value) }

func (r simRegister) HasBits(value uint32) bool { return r.Get()&value > 0 }

func (r simRegister) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (value&mask)<<pos)
}
