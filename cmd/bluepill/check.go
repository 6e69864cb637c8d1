package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"bluepill/app"
	"bluepill/board"
	"bluepill/host/console"
	"bluepill/host/serial"
	"bluepill/protocol"
	"bluepill/regs"
)

var (
	checkOpts = struct {
		lines   int
		timeout time.Duration
		sim     bool
	}{}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Validate the hello application's serial stream",
		Long: "Read lines from a board running the hello application and check that every\n" +
			"line ends in CRLF and the counter goes up by one each time.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), checkOpts.timeout)
			defer cancel()

			var c *console.Console
			if checkOpts.sim {
				c = simConsole(ctx, checkOpts.lines)
			} else {
				p, err := loadProfile()
				if err != nil {
					return err
				}
				if c, err = console.Dial(serialConfig(p)); err != nil {
					return err
				}
			}
			defer c.Close()
			return checkHello(ctx, c, checkOpts.lines, cmd.OutOrStdout())
		},
	}
)

func init() {
	checkCmd.Flags().IntVarP(&checkOpts.lines, "lines", "n", 5, "counted lines to validate")
	checkCmd.Flags().DurationVar(&checkOpts.timeout, "timeout", 30*time.Second, "give up after this long")
	checkCmd.Flags().BoolVar(&checkOpts.sim, "sim", false, "check a simulated board instead of the serial device")
}

// checkHello reads lines from c until n counted hello lines have passed
// the checker.
func checkHello(ctx context.Context, c *console.Console, n int, out io.Writer) error {
	var h protocol.HelloChecker
	for h.Counted() < n {
		line, err := c.ReadLine(ctx)
		if err != nil {
			return fmt.Errorf("after %d lines: %w", h.Counted(), err)
		}
		if err := h.Check(line); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "ok: %d lines, last count %d\n", h.Counted(), h.Last())
	return nil
}

// simConsole runs the hello application for lines iterations on a
// simulated chip and returns a console reading its USART1 output.
func simConsole(ctx context.Context, lines int) *console.Console {
	host, device := serial.Pipe()
	sim := regs.NewSim()
	b, _ := board.New(sim.Device(), board.DefaultConfig())
	sim.USART1.OnTransmit(func(c byte) {
		device.Write([]byte{c})
	})
	go func() {
		defer device.Close()
		app.Hello(ctx, b, lines)
	}()
	return console.New(host)
}
