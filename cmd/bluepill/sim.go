package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bluepill/app"
	"bluepill/board"
	"bluepill/host/profile"
	"bluepill/regs"
	"bluepill/sched"
)

var (
	simOpts = struct {
		iterations int
		virtual    bool
	}{}

	simCmd = &cobra.Command{
		Use:   "sim <app>",
		Short: "Run a firmware application on a simulated chip",
		Long: "Run a firmware application against simulated registers. USART1 output goes to\n" +
			"stdout, LED changes are reported as lines, and stdin feeds the receive line.\n" +
			"Applications: " + strings.Join(app.Names(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			in := io.Reader(os.Stdin)
			if args[0] == "echo" && term.IsTerminal(int(os.Stdin.Fd())) {
				restore, err := rawStdin()
				if err != nil {
					return err
				}
				defer restore()
				in = &quitReader{r: os.Stdin}
			}
			return runSim(ctx, p, args[0], in, cmd.OutOrStdout())
		},
	}
)

func init() {
	simCmd.Flags().IntVarP(&simOpts.iterations, "iterations", "n", 0, "stop after n toggles or lines (0 = run until interrupted)")
	simCmd.Flags().BoolVar(&simOpts.virtual, "virtual-clock", false, "run scheduler delays instantly")
}

// runSim runs application name on a fresh simulated chip. Bytes read from
// in are fed to USART1; everything USART1 transmits is copied to out.
func runSim(ctx context.Context, p *profile.Profile, name string, in io.Reader, out io.Writer) error {
	a, ok := app.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown application %q (have %s)", name, strings.Join(app.Names(), ", "))
	}

	sim := regs.NewSim()
	cfg := board.DefaultConfig()
	cfg.ClockHz = p.ClockHz
	cfg.Baud = uint32(p.Baud)
	cfg.SettleSpins = p.SettleSpins
	cfg.Settle = p.Settle()
	b, err := board.New(sim.Device(), cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sim.USART1.OnTransmit(func(c byte) {
		if ctx.Err() == nil {
			out.Write([]byte{c})
		}
	})
	watchLED(sim, cfg, out)

	if name == "echo" {
		go func() {
			buf := make([]byte, 64)
			for {
				n, err := in.Read(buf)
				if n > 0 {
					sim.USART1.Feed(buf[:n])
				}
				if err != nil {
					cancel()
					return
				}
			}
		}()
		go func() {
			<-ctx.Done()
			// Echo only notices the cancellation after its next byte
			sim.USART1.Feed([]byte{0})
		}()
	}

	opt := app.Options{Iterations: simOpts.iterations}
	if simOpts.virtual {
		opt.Clock = sched.VirtualClock{}
	}
	err = a.Run(ctx, b, opt)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// watchLED reports every write that changes the LED output.
func watchLED(sim *regs.Sim, cfg board.Config, out io.Writer) {
	odr := regs.OutputAddr(cfg.LED.Bank)
	bit := uint32(1) << cfg.LED.Index
	sim.MapIO(odr, odr+4, nil, func(addr, old, v uint32) (uint32, bool) {
		if (old^v)&bit != 0 {
			lit := (v&bit != 0) != cfg.LEDActiveLow
			state := "off"
			if lit {
				state = "on"
			}
			fmt.Fprintf(out, "[%s %s]\n", cfg.LED, state)
		}
		return v, true
	})
}
