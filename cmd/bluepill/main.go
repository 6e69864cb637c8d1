// Command bluepill is the host companion of the Blue Pill firmware: it runs
// the firmware applications against a simulated chip, talks to a real board
// over its serial port and flashes new builds.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bluepill/core"
	"bluepill/host/profile"
	"bluepill/host/serial"
)

var (
	rootOpts = struct {
		profile string
		device  string
		verbose bool
	}{}

	rootCmd = &cobra.Command{
		Use:   "bluepill",
		Short: "Run, monitor and flash the Blue Pill firmware applications",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if rootOpts.verbose {
				core.SetDebugWriter(func(s string) { fmt.Fprintln(os.Stderr, s) })
				core.SetDebugEnabled(true)
			}
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.profile, "profile", "p", "", "board profile (YAML)")
	rootCmd.PersistentFlags().StringVarP(&rootOpts.device, "device", "d", "", "serial device, overrides the profile")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "print driver debug lines to stderr")

	rootCmd.AddCommand(simCmd, monitorCmd, checkCmd, flashCmd, baudCmd)
}

// loadProfile returns the profile named by --profile, or the defaults,
// with --device applied.
func loadProfile() (*profile.Profile, error) {
	p := profile.Default()
	if rootOpts.profile != "" {
		var err error
		if p, err = profile.Load(rootOpts.profile); err != nil {
			return nil, err
		}
	}
	if rootOpts.device != "" {
		p.Device = rootOpts.device
	}
	return p, nil
}

// serialConfig builds the port settings for p.
func serialConfig(p *profile.Profile) *serial.Config {
	cfg := serial.DefaultConfig(p.Device)
	cfg.Baud = p.Baud
	cfg.ReadTimeout = p.ReadTimeout
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
