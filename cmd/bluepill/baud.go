package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"bluepill/core"
)

var baudCmd = &cobra.Command{
	Use:   "baud [rate...]",
	Short: "Show the USART divisor and rate error for baud rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		rates := []uint32{uint32(p.Baud)}
		if len(args) > 0 {
			rates = rates[:0]
			for _, a := range args {
				r, err := strconv.ParseUint(a, 10, 32)
				if err != nil || r == 0 {
					return fmt.Errorf("invalid baud rate %q", a)
				}
				rates = append(rates, uint32(r))
			}
		}
		baudReport(cmd.OutOrStdout(), p.ClockHz, rates)
		return nil
	},
}

// baudReport prints, for each rate, the divisor the firmware loads, the
// rate the USART actually produces and the relative error.
func baudReport(w io.Writer, clockHz uint32, rates []uint32) {
	fmt.Fprintf(w, "clock %d Hz\n", clockHz)
	for _, r := range rates {
		div := core.BaudDivisor(clockHz, r)
		if div == 0 {
			fmt.Fprintf(w, "%8d  unreachable\n", r)
			continue
		}
		actual := float64(clockHz) / float64(div)
		errPct := (actual - float64(r)) / float64(r) * 100
		fmt.Fprintf(w, "%8d  brr=%-6d actual=%-10.1f error=%+.2f%%\n", r, div, actual, errPct)
	}
}
