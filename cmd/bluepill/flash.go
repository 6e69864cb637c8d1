package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"bluepill/app"
	"bluepill/host/profile"
)

var (
	flashOpts = struct {
		dryRun bool
	}{}

	flashCmd = &cobra.Command{
		Use:   "flash <app>",
		Short: "Build and flash a firmware application",
		Long:  "Run the profile's flash command with {mode} set to the application name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			argv, err := flashArgs(p, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(argv, " "))
			if flashOpts.dryRun {
				return nil
			}

			c := exec.CommandContext(cmd.Context(), argv[0], argv[1:]...)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			if err := c.Run(); err != nil {
				return fmt.Errorf("flash failed: %w", err)
			}
			return nil
		},
	}
)

func init() {
	flashCmd.Flags().BoolVarP(&flashOpts.dryRun, "dry-run", "n", false, "print the command without running it")
}

// flashArgs expands the profile's flash command for application name.
func flashArgs(p *profile.Profile, name string) ([]string, error) {
	if _, ok := app.Lookup(name); !ok {
		return nil, fmt.Errorf("unknown application %q", name)
	}
	argv, err := shlex.Split(strings.ReplaceAll(p.Flash, "{mode}", name))
	if err != nil {
		return nil, fmt.Errorf("failed to parse flash command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty flash command")
	}
	return argv, nil
}
