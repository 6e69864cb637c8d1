package app

import (
	"context"

	"bluepill/board"
	"bluepill/core"
)

const helloBanner = "\n==============================\n" +
	"  STM32F103 Serial Hello World\n" +
	"==============================\n\n"

const echoBanner = "STM32F103C8T6 UART Echo Ready\r\n" +
	"Type characters to echo them back...\r\n\n"

// Hello prints a banner and then a counted greeting line after every
// busy-wait, starting at 0. Newlines go out as CRLF. iterations bounds the
// number of lines; zero means forever.
func Hello(ctx context.Context, b *board.Board, iterations int) error {
	b.InitSerial()
	u := b.UART
	u.SendString(helloBanner)

	var count uint32
	for i := 0; iterations == 0 || i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		u.SendString("Hello World! Count: ")
		u.SendUnsigned(count)
		u.SendString("\n")
		count++
		core.BusyWait(helloSpins)
	}
	return nil
}

// Echo prints a banner and echoes every received byte, following a
// carriage return with a line feed. The banner is sent as is, without
// newline translation. Echo blocks waiting for input and only notices ctx
// between bytes.
func Echo(ctx context.Context, b *board.Board) error {
	b.InitSerial()
	u := b.UART
	u.WriteString(echoBanner)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		u.Echo(u.RecvByte())
	}
}
