package core

import "bluepill/regs"

// DefaultBaud is used when Configure is given a zero baud rate.
const DefaultBaud = 115200

// UARTState tracks where a USART is in its lifecycle.
type UARTState uint8

const (
	Unconfigured UARTState = iota
	Configured
	Transmitting // spinning on TXE inside SendByte
	Receiving    // spinning on RXNE inside RecvByte
)

func (s UARTState) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Configured:
		return "configured"
	case Transmitting:
		return "transmitting"
	case Receiving:
		return "receiving"
	}
	return "unknown"
}

// USARTConfig wires a USART to its registers, its clocks and its pins.
type USARTConfig struct {
	Regs   *regs.USART
	Clocks *ClockGate
	Gate   Peripheral // clock enable bit of the USART itself
	Pins   *Port      // bank carrying TX and RX
	TX, RX uint8
}

// USART is a polled, blocking serial transport: 8 data bits, no parity, one
// stop bit, no flow control. Nothing is buffered in software, so a byte that
// arrives while nobody is waiting in RecvByte is lost once the next one lands.
//
// A USART must be owned by a single task.
type USART struct {
	regs   *regs.USART
	clocks *ClockGate
	gate   Peripheral
	pins   *Port
	tx, rx uint8
	baud   uint32
	state  UARTState
}

// NewUSART returns an unconfigured USART.
func NewUSART(cfg USARTConfig) *USART {
	return &USART{
		regs:   cfg.Regs,
		clocks: cfg.Clocks,
		gate:   cfg.Gate,
		pins:   cfg.Pins,
		tx:     cfg.TX,
		rx:     cfg.RX,
	}
}

// BaudDivisor returns the value loaded into the baud rate register: the bus
// clock divided by the baud rate, truncated.
func BaudDivisor(clockHz, baud uint32) uint32 {
	return clockHz / baud
}

// Configure enables the port and USART clocks, puts TX in alternate-function
// push-pull and RX in floating input, loads the baud divisor and turns on
// the transmitter, the receiver and the USART. It must run before any other
// method.
func (u *USART) Configure(baud, clockHz uint32) {
	if baud == 0 {
		baud = DefaultBaud
	}
	u.clocks.Enable(BankClock(u.pins.Bank()) | u.gate)
	u.pins.Configure(u.tx, AltPushPull)
	u.pins.Configure(u.rx, InputFloating)
	u.regs.BRR.Set(BaudDivisor(clockHz, baud))
	u.regs.CR1.Set(regs.USART_CR1_TE | regs.USART_CR1_RE | regs.USART_CR1_UE)
	u.baud = baud
	u.state = Configured
	if IsDebugEnabled() {
		DebugPrintln("usart: configured baud=" + utoa(baud) + " brr=" + utoa(BaudDivisor(clockHz, baud)))
	}
}

// Baud returns the configured baud rate, 0 before Configure.
func (u *USART) Baud() uint32 {
	return u.baud
}

// State returns the lifecycle state. It is diagnostic only.
func (u *USART) State() UARTState {
	return u.state
}

// SendByte spins until the transmit data register is empty, then writes c.
// It blocks forever if the transmitter never becomes ready.
func (u *USART) SendByte(c byte) {
	prev := u.state
	u.state = Transmitting
	for !u.regs.SR.HasBits(regs.USART_SR_TXE) {
	}
	u.regs.DR.Set(uint32(c))
	u.state = prev
}

// RecvByte spins until a byte has been received and returns it. It blocks
// forever if nothing arrives.
func (u *USART) RecvByte() byte {
	prev := u.state
	u.state = Receiving
	for !u.regs.SR.HasBits(regs.USART_SR_RXNE) {
	}
	c := byte(u.regs.DR.Get())
	u.state = prev
	return c
}

// SendString sends s, emitting '\r' before each '\n'. All other bytes go
// out unchanged.
func (u *USART) SendString(s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			u.SendByte('\r')
		}
		u.SendByte(s[i])
	}
}

// SendUnsigned sends the decimal digits of n, without padding or sign.
func (u *USART) SendUnsigned(n uint32) {
	var buf [decimalBufLen]byte
	for _, c := range formatUnsigned(&buf, n) {
		u.SendByte(c)
	}
}

// Echo sends c back and follows a carriage return with a line feed, the way
// a terminal in raw mode expects.
func (u *USART) Echo(c byte) {
	u.SendByte(c)
	if c == '\r' {
		u.SendByte('\n')
	}
}

// Write implements io.Writer. Bytes are sent raw, without newline
// translation. It never fails.
func (u *USART) Write(p []byte) (int, error) {
	for _, c := range p {
		u.SendByte(c)
	}
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (u *USART) WriteByte(c byte) error {
	u.SendByte(c)
	return nil
}

// WriteString implements io.StringWriter. Unlike SendString it does not
// translate newlines.
func (u *USART) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		u.SendByte(s[i])
	}
	return len(s), nil
}

// ReadByte implements io.ByteReader. It blocks until a byte arrives.
func (u *USART) ReadByte() (byte, error) {
	return u.RecvByte(), nil
}

// Read implements io.Reader. It blocks for the first byte, then returns
// whatever else is already waiting without blocking again.
func (u *USART) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = u.RecvByte()
	n := 1
	for n < len(p) && u.regs.SR.HasBits(regs.USART_SR_RXNE) {
		p[n] = byte(u.regs.DR.Get())
		n++
	}
	return n, nil
}
