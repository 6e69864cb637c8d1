package regs

// SimUSART models the transmit and receive paths of a USART block inside a
// Sim. Transmitted bytes are captured; received bytes come from a line fed
// by the test or by a host terminal.
type SimUSART struct {
	sim  *Sim
	base uint32
	gate uint32

	readyAfter int // status polls before TXE reports set
	polls      int

	tx         []byte
	onTransmit func(byte)

	wire    []byte // bytes still on the line
	holding bool   // receive data register full
	rdr     byte
	overrun bool

	statusReads int
	dataReads   int
	dataWrites  int
}

func newSimUSART(s *Sim, base, gate uint32) *SimUSART {
	u := &SimUSART{sim: s, base: base, gate: gate}
	s.regions = append(s.regions, ioRegion{
		start:   base,
		end:     base + blockSize,
		onRead:  u.read,
		onWrite: u.write,
	})
	return u
}

func (u *SimUSART) enabled(bits uint32) bool {
	return u.sim.mem[u.base+usartCR1]&(USART_CR1_UE|bits) == USART_CR1_UE|bits
}

func (u *SimUSART) read(addr, v uint32) uint32 {
	if !u.sim.clocked(u.gate) {
		return 0
	}
	switch addr - u.base {
	case usartSR:
		u.statusReads++
		v &^= USART_SR_TXE | USART_SR_TC | USART_SR_RXNE | USART_SR_ORE
		if u.polls >= u.readyAfter {
			v |= USART_SR_TXE | USART_SR_TC
		}
		u.polls++
		if u.holding {
			v |= USART_SR_RXNE
		}
		if u.overrun {
			v |= USART_SR_ORE
		}
		return v
	case usartDR:
		u.dataReads++
		b := u.rdr
		u.holding = false
		u.overrun = false
		u.load()
		return uint32(b)
	}
	return v
}

func (u *SimUSART) write(addr, old, v uint32) (uint32, bool) {
	if !u.sim.clocked(u.gate) {
		return old, false
	}
	if addr-u.base != usartDR {
		return v, true
	}
	u.dataWrites++
	if !u.enabled(USART_CR1_TE) {
		return old, false
	}
	b := byte(v)
	u.tx = append(u.tx, b)
	u.polls = 0
	if f := u.onTransmit; f != nil {
		u.sim.deferred = append(u.sim.deferred, func() { f(b) })
	}
	return v & 0x1FF, true
}

// load moves the next byte off the line into the data register. Lock held.
func (u *SimUSART) load() {
	if u.holding || len(u.wire) == 0 {
		return
	}
	u.rdr = u.wire[0]
	u.wire = u.wire[1:]
	u.holding = true
}

// TXReadyAfter makes TXE read as clear for the first n status polls after
// each data register write (and after this call).
func (u *SimUSART) TXReadyAfter(n int) {
	u.sim.mu.Lock()
	u.readyAfter = n
	u.polls = 0
	u.sim.mu.Unlock()
}

// Feed queues bytes on the receive line. A byte is presented only after
// the previous one has been read, so fed data is never overrun.
func (u *SimUSART) Feed(p []byte) {
	u.sim.mu.Lock()
	u.wire = append(u.wire, p...)
	u.load()
	u.sim.mu.Unlock()
}

// Inject delivers one byte straight into the receiver. If the data
// register is still full the byte is lost and ORE is raised.
func (u *SimUSART) Inject(b byte) {
	u.sim.mu.Lock()
	if u.holding {
		u.overrun = true
	} else {
		u.rdr = b
		u.holding = true
	}
	u.sim.mu.Unlock()
}

// Pending returns the number of received bytes not yet read.
func (u *SimUSART) Pending() int {
	u.sim.mu.Lock()
	defer u.sim.mu.Unlock()
	n := len(u.wire)
	if u.holding {
		n++
	}
	return n
}

// Transmitted returns a copy of every byte written to the line.
func (u *SimUSART) Transmitted() []byte {
	u.sim.mu.Lock()
	defer u.sim.mu.Unlock()
	return append([]byte(nil), u.tx...)
}

// ClearTransmitted discards the captured output.
func (u *SimUSART) ClearTransmitted() {
	u.sim.mu.Lock()
	u.tx = u.tx[:0]
	u.sim.mu.Unlock()
}

// OnTransmit registers f to be called, outside the Sim lock, with every
// transmitted byte.
func (u *SimUSART) OnTransmit(f func(byte)) {
	u.sim.mu.Lock()
	u.onTransmit = f
	u.sim.mu.Unlock()
}

// StatusReads returns the number of SR reads.
func (u *SimUSART) StatusReads() int {
	u.sim.mu.Lock()
	defer u.sim.mu.Unlock()
	return u.statusReads
}

// DataReads returns the number of DR reads.
func (u *SimUSART) DataReads() int {
	u.sim.mu.Lock()
	defer u.sim.mu.Unlock()
	return u.dataReads
}

// DataWrites returns the number of DR writes, including dropped ones.
func (u *SimUSART) DataWrites() int {
	u.sim.mu.Lock()
	defer u.sim.mu.Unlock()
	return u.dataWrites
}
