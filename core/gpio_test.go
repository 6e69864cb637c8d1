package core

import (
	"math/rand"
	"testing"

	"bluepill/regs"
)

var allModes = []PinMode{
	InputAnalog, InputFloating, InputPull,
	OutputPushPull10MHz, OutputPushPull, OutputPushPull50MHz, OutputOpenDrain,
	AltPushPull, AltOpenDrain,
}

// newClockedPort returns a port on bank C with its clock running.
func newClockedPort(t *testing.T) (*regs.Sim, *Port) {
	t.Helper()
	sim := regs.NewSim()
	dev := sim.Device()
	NewClockGate(&dev.RCC, nil).Enable(IOPC)
	return sim, NewPort(regs.BankC, &dev.GPIOC)
}

func TestPortConfigurePreservesOtherFields(t *testing.T) {
	sim, port := newClockedPort(t)
	g := sim.Device().GPIOC
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		crl, crh := rng.Uint32(), rng.Uint32()
		g.CRL.Set(crl)
		g.CRH.Set(crh)
		index := uint8(rng.Intn(16))
		mode := allModes[rng.Intn(len(allModes))]

		port.Configure(index, mode)

		cr, before := g.CRL, crl
		shift := 4 * uint32(index)
		if index >= 8 {
			cr, before = g.CRH, crh
			shift = 4 * uint32(index-8)
		}
		mask := uint32(0xF) << shift
		after := cr.Get()
		if after&^mask != before&^mask {
			t.Fatalf("pin %d mode 0x%X: other fields changed, 0x%08X -> 0x%08X", index, mode, before, after)
		}
		if got := PinMode(after>>shift) & 0xF; got != mode {
			t.Fatalf("pin %d: expected mode 0x%X, got 0x%X", index, mode, got)
		}
		// the register not holding this pin is untouched
		if index < 8 && g.CRH.Get() != crh {
			t.Fatalf("pin %d: CRH changed", index)
		}
		if index >= 8 && g.CRL.Get() != crl {
			t.Fatalf("pin %d: CRL changed", index)
		}
	}
}

func TestPortModeReadback(t *testing.T) {
	_, port := newClockedPort(t)

	for index := uint8(0); index < 16; index++ {
		for _, mode := range allModes {
			port.Configure(index, mode)
			if got := port.Mode(index); got != mode {
				t.Errorf("pin %d: expected mode 0x%X, got 0x%X", index, mode, got)
			}
		}
	}
}

func TestPortConfigureLEDField(t *testing.T) {
	sim, port := newClockedPort(t)

	port.Configure(PC13.Index, OutputPushPull)

	// PC13 lives in CRH bits 20-23; the rest stays at reset (floating input)
	if got := sim.Device().GPIOC.CRH.Get(); got != 0x4424_4444 {
		t.Errorf("Expected CRH 0x44244444, got 0x%08X", got)
	}
}

func TestPortConfigureOneWrite(t *testing.T) {
	sim, port := newClockedPort(t)
	writes := 0
	sim.MapIO(regs.GPIOCBase, regs.GPIOCBase+8, nil, func(addr, old, v uint32) (uint32, bool) {
		writes++
		return v, true
	})

	port.Configure(3, OutputOpenDrain)
	if writes != 1 {
		t.Errorf("Expected 1 config register write, got %d", writes)
	}
}

func TestPortToggleIsInvolution(t *testing.T) {
	sim, port := newClockedPort(t)
	odr := sim.Device().GPIOC.ODR
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 100; i++ {
		start := rng.Uint32() & 0xFFFF
		odr.Set(start)
		index := uint8(rng.Intn(16))

		port.Toggle(index)
		if got := odr.Get(); got != start^(1<<index) {
			t.Fatalf("pin %d: expected ODR 0x%04X after toggle, got 0x%04X", index, start^(1<<index), got)
		}
		port.Toggle(index)
		if got := odr.Get(); got != start {
			t.Fatalf("pin %d: expected ODR 0x%04X after double toggle, got 0x%04X", index, start, got)
		}
	}
}

func TestPortSetAndOutput(t *testing.T) {
	_, port := newClockedPort(t)
	port.Configure(PC13.Index, OutputPushPull)

	port.High(PC13.Index)
	if !port.Output(PC13.Index) {
		t.Error("Expected PC13 output high")
	}
	port.High(2)
	port.Low(PC13.Index)
	if port.Output(PC13.Index) {
		t.Error("Expected PC13 output low")
	}
	if !port.Output(2) {
		t.Error("Expected pin 2 to stay high")
	}
}

func TestPortGetReadsInputs(t *testing.T) {
	sim, port := newClockedPort(t)
	port.Configure(0, InputFloating)
	port.Configure(1, OutputPushPull)

	sim.SetInput(regs.BankC, 0, true)
	if !port.Get(0) {
		t.Error("Expected pin 0 input high")
	}
	// outputs read back their own level
	sim.SetInput(regs.BankC, 1, true)
	port.Low(1)
	if port.Get(1) {
		t.Error("Expected pin 1 to read its low output")
	}
}

func TestPortWithoutClockIsIgnored(t *testing.T) {
	sim := regs.NewSim()
	dev := sim.Device()
	port := NewPort(regs.BankC, &dev.GPIOC)

	port.Configure(PC13.Index, OutputPushPull)
	port.Toggle(PC13.Index)

	if got := port.Mode(PC13.Index); got != InputFloating {
		t.Errorf("Expected reset mode 0x%X, got 0x%X", InputFloating, got)
	}
	if port.Output(PC13.Index) {
		t.Error("Expected output untouched without clock")
	}
}

func TestPinString(t *testing.T) {
	tests := map[Pin]string{
		PA9:  "PA9",
		PA10: "PA10",
		PC13: "PC13",
	}
	for pin, want := range tests {
		if got := pin.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}

func TestPinModeFields(t *testing.T) {
	if AltPushPull.CNF() != 2 || AltPushPull.Speed() != 3 {
		t.Errorf("Expected CNF 2 MODE 3, got CNF %d MODE %d", AltPushPull.CNF(), AltPushPull.Speed())
	}
	if InputFloating.IsOutput() {
		t.Error("Expected floating input not to be an output")
	}
	if !OutputPushPull.IsOutput() {
		t.Error("Expected push-pull to be an output")
	}
}
