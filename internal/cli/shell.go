package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entl/membox/internal/capture"
	"github.com/entl/membox/internal/client"
	"github.com/entl/membox/internal/config"
	"github.com/entl/membox/internal/queue"
	"github.com/entl/membox/internal/session"
)

// NewShellCommand creates the 'shell' subcommand.
func NewShellCommand(cfg config.Config, c *client.Client) *cobra.Command {
	var shellOverride string
	var onlySuccesses bool

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell with command capture.",
		Long: `Runs your shell under a capturing session. Every command you execute
is forwarded to the membox backend in the background; capture failures
never interrupt the shell.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("only-successes") {
				cfg.OnlySuccesses = onlySuccesses
			}
			if shellOverride != "" {
				cfg.Shell = shellOverride
			}
			return runShellCmd(cfg, c)
		},
	}

	cmd.Flags().StringVar(&shellOverride, "shell", "", "Shell to run (defaults to $SHELL).")
	cmd.Flags().BoolVar(&onlySuccesses, "only-successes", false, "Capture only commands that exited with status 0.")

	return cmd
}

func runShellCmd(cfg config.Config, c *client.Client) error {
	// A nil submitter disables capture without disturbing the shell.
	var submitter capture.Submitter
	if cfg.CaptureEnabled && c != nil {
		submitter = c
	} else {
		fmt.Println(warningColor("Command capture is disabled; running a plain shell."))
	}

	capturer := capture.NewCapturer(queue.New(), submitter)

	runner := session.NewRunner(session.Options{
		Shell: cfg.Shell,
		Handler: func(e session.Execution) {
			capturer.Capture(capture.ProcessExecution(e.CommandLine, e.ExitCode, e.Workdir, cfg.OnlySuccesses))
		},
	})

	fmt.Println(infoColor("Starting captured shell. Exit the shell to stop capturing."))
	err := runner.Run()

	// Let in-flight captures settle before the process exits.
	capturer.Wait()

	if err != nil {
		return fmt.Errorf("capture session failed: %w", err)
	}
	return nil
}
