// Package regs is the register access layer for the STM32F103 peripherals
// driven by this module. It is the only package that knows physical
// addresses: everything else receives typed register blocks through a
// *Device handle, backed either by real MMIO (TinyGo builds) or by a Sim.
package regs

// Register is a 32-bit peripheral register. Every method is a direct access
// to the backing register; nothing is cached between calls. The bit helpers
// are read-modify-write sequences and are not atomic.
//
// *volatile.Register32 from TinyGo satisfies this interface.
type Register interface {
	Get() uint32
	Set(value uint32)
	SetBits(value uint32)
	ClearBits(value uint32)
	HasBits(value uint32) bool
	ReplaceBits(value uint32, mask uint32, pos uint8)
}

// RCC is the reset and clock control block (only the registers we touch).
type RCC struct {
	APB2ENR Register
}

// GPIO is one port bank (GPIOA, GPIOB, ...).
type GPIO struct {
	CRL  Register // config for pins 0-7
	CRH  Register // config for pins 8-15
	IDR  Register
	ODR  Register
	BSRR Register
	BRR  Register
}

// USART is a universal synchronous/asynchronous transceiver block.
type USART struct {
	SR  Register
	DR  Register
	BRR Register
	CR1 Register
	CR2 Register
	CR3 Register
}

// Device groups every register block of the chip that the drivers use.
type Device struct {
	RCC    RCC
	GPIOA  GPIO
	GPIOB  GPIO
	GPIOC  GPIO
	USART1 USART
}

// mapDevice resolves every register of the memory map through at.
func mapDevice(at func(addr uint32) Register) *Device {
	gpio := func(base uint32) GPIO {
		return GPIO{
			CRL:  at(base + gpioCRL),
			CRH:  at(base + gpioCRH),
			IDR:  at(base + gpioIDR),
			ODR:  at(base + gpioODR),
			BSRR: at(base + gpioBSRR),
			BRR:  at(base + gpioBRR),
		}
	}
	return &Device{
		RCC: RCC{
			APB2ENR: at(RCCBase + rccAPB2ENR),
		},
		GPIOA: gpio(GPIOABase),
		GPIOB: gpio(GPIOBBase),
		GPIOC: gpio(GPIOCBase),
		USART1: USART{
			SR:  at(USART1Base + usartSR),
			DR:  at(USART1Base + usartDR),
			BRR: at(USART1Base + usartBRR),
			CR1: at(USART1Base + usartCR1),
			CR2: at(USART1Base + usartCR2),
			CR3: at(USART1Base + usartCR3),
		},
	}
}
