package regs

// STM32F103 memory map (RM0008).
const (
	RCCBase    = 0x4002_1000
	GPIOABase  = 0x4001_0800
	GPIOBBase  = 0x4001_0C00
	GPIOCBase  = 0x4001_1000
	USART1Base = 0x4001_3800

	blockSize = 0x400
)

// Register offsets within each block.
const (
	rccAPB2ENR = 0x18

	gpioCRL  = 0x00
	gpioCRH  = 0x04
	gpioIDR  = 0x08
	gpioODR  = 0x0C
	gpioBSRR = 0x10
	gpioBRR  = 0x14

	usartSR  = 0x00
	usartDR  = 0x04
	usartBRR = 0x08
	usartCR1 = 0x0C
	usartCR2 = 0x10
	usartCR3 = 0x14
)

// RCC_APB2ENR clock enable bits.
const (
	RCC_APB2ENR_AFIOEN   = 1 << 0
	RCC_APB2ENR_IOPAEN   = 1 << 2
	RCC_APB2ENR_IOPBEN   = 1 << 3
	RCC_APB2ENR_IOPCEN   = 1 << 4
	RCC_APB2ENR_USART1EN = 1 << 14
)

// USART_SR status flags.
const (
	USART_SR_PE   = 1 << 0
	USART_SR_FE   = 1 << 1
	USART_SR_NE   = 1 << 2
	USART_SR_ORE  = 1 << 3
	USART_SR_RXNE = 1 << 5
	USART_SR_TC   = 1 << 6
	USART_SR_TXE  = 1 << 7
)

// USART_CR1 control bits.
const (
	USART_CR1_RE  = 1 << 2
	USART_CR1_TE  = 1 << 3
	USART_CR1_PCE = 1 << 10
	USART_CR1_M   = 1 << 12
	USART_CR1_UE  = 1 << 13
)

// gpioCRReset is the CRL/CRH reset value: every pin input floating.
const gpioCRReset = 0x4444_4444
