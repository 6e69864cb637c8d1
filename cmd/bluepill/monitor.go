package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bluepill/host/serial"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Bridge the terminal to the board's serial port",
	Long:  "Copy the board's serial output to stdout and keystrokes to the board.\nQuit with Ctrl-] (or Ctrl-C).",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		port, err := serial.Open(serialConfig(p))
		if err != nil {
			return err
		}
		defer port.Close()

		in := io.Reader(os.Stdin)
		if term.IsTerminal(int(os.Stdin.Fd())) {
			restore, err := rawStdin()
			if err != nil {
				return err
			}
			defer restore()
			in = &quitReader{r: os.Stdin}
		}
		fmt.Fprintf(os.Stderr, "connected to %s at %d baud\r\n", p.Device, p.Baud)
		return bridge(port, in, cmd.OutOrStdout())
	},
}

// bridge copies port to out and in to port until in ends or the port
// fails. Read timeouts on the port are not failures.
func bridge(port serial.Port, in io.Reader, out io.Writer) error {
	errc := make(chan error, 1)
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := port.Read(buf)
			if n > 0 {
				if _, werr := out.Write(buf[:n]); werr != nil {
					errc <- werr
					return
				}
			}
			if err != nil && err != io.EOF {
				errc <- fmt.Errorf("serial read: %w", err)
				return
			}
		}
	}()
	go func() {
		_, err := io.Copy(port, in)
		if err != nil {
			errc <- fmt.Errorf("serial write: %w", err)
			return
		}
		errc <- nil
	}()
	return <-errc
}
