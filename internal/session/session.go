// Package session runs an interactive shell under a PTY and watches its
// output for membox integration markers, turning finished commands into
// execution events for the capture pipeline.
package session

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/entl/membox/internal/logging"
)

// Options configures a capture session.
type Options struct {
	Shell   string // optional: override default shell
	Cwd     string // optional: starting directory
	Env     []string
	Handler ExecutionHandler // receives finished commands
}

// Runner owns one interactive capture session.
type Runner struct {
	id   string
	opts Options
}

// NewRunner creates a session runner. Handler may be nil, in which case
// the session is a plain passthrough shell.
func NewRunner(opts Options) *Runner {
	if opts.Shell == "" {
		opts.Shell = defaultShell()
	}
	if opts.Handler == nil {
		opts.Handler = func(Execution) {}
	}
	return &Runner{
		id:   uuid.New().String(),
		opts: opts,
	}
}

// ID returns the session identifier.
func (r *Runner) ID() string {
	return r.id
}

// Run starts the shell and blocks until it exits. The calling terminal
// is put into raw mode for the duration; stdin is forwarded to the
// shell and shell output, minus markers, is echoed back to stdout.
func (r *Runner) Run() error {
	shellPath, shellArgs, cleanup, err := prepareShellCommand(r.opts.Shell)
	if err != nil {
		return fmt.Errorf("failed to prepare shell command: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	cmd := exec.Command(shellPath, shellArgs...)
	cmd.Dir = r.opts.Cwd
	cmd.Env = append(os.Environ(), r.opts.Env...)
	cmd.Env = append(cmd.Env, getEnvSetup()...)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}
	defer ptmx.Close()

	logging.Debug().Str("session", r.id).Str("shell", shellPath).Msg("capture session started")

	// Track terminal resizes.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
				logging.Debug().Err(err).Msg("failed to resize pty")
			}
		}
	}()
	winch <- syscall.SIGWINCH // initial size
	defer func() {
		signal.Stop(winch)
		close(winch)
	}()

	// Raw mode so keystrokes reach the shell unmangled.
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(int(os.Stdin.Fd()), oldState)
	}()

	go func() {
		_, _ = io.Copy(ptmx, os.Stdin)
	}()

	scanner := NewScanner(os.Stdout, r.opts.Handler)
	_, _ = io.Copy(scanner, ptmx) // returns when the shell exits

	err = cmd.Wait()
	logging.Debug().Str("session", r.id).Err(err).Msg("capture session ended")
	if err != nil {
		return fmt.Errorf("shell exited: %w", err)
	}
	return nil
}
