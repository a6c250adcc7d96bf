package session

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Marker sequences emitted by the injected shell hooks. Plain-text
// ASCII is used so the markers survive any terminal transport without
// being swallowed by escape-sequence strippers. Command text and
// working directory are base64-encoded inside the marker so shell
// metacharacters and spaces cannot break the framing.
const (
	markerStart = "<<<MEMBOX:"
	markerEnd   = ">>>"
)

// getBashZshInit returns the shell initialization code for bash/zsh.
// It sources the user's existing rc file first so normal aliases and
// settings are preserved, then installs the membox hooks: one marker
// just before a command runs (carrying the command line) and one after
// it finishes (carrying the exit code and working directory).
func getBashZshInit() string {
	return `# membox shell integration
export MEMBOX_SHELL_INTEGRATION=1
__membox_started=0

__membox_b64() {
  printf '%s' "$1" | base64 | tr -d '\n'
}

# preexec – fires just before a command is executed.
__membox_preexec() {
  __membox_started=1
  printf '<<<MEMBOX:EXEC cmd=%s>>>' "$(__membox_b64 "$1")"
}

# precmd – fires after each command, before the prompt.
# We capture $? immediately so nothing can clobber it.
__membox_precmd() {
  local __mb_exit=$?
  if [[ "$__membox_started" == "1" ]]; then
    printf '<<<MEMBOX:DONE exit=%d cwd=%s>>>' "$__mb_exit" "$(__membox_b64 "$PWD")"
    __membox_started=0
  fi
}

# For zsh
if [[ -n "${ZSH_VERSION}" ]]; then
  [[ -f ~/.zshrc ]] && source ~/.zshrc
  # Disable the % indicator for commands without trailing newline
  unsetopt PROMPT_SP
  autoload -Uz add-zsh-hook
  add-zsh-hook precmd  __membox_precmd
  add-zsh-hook preexec __membox_preexec

# For bash
elif [[ -n "${BASH_VERSION}" ]]; then
  [[ -f ~/.bashrc ]] && source ~/.bashrc
  # DEBUG trap fires before each interactive command.
  # Guard against re-entry so pipelines only emit one EXEC marker.
  __membox_debug_handler() {
    if [[ "$__membox_started" == "0" ]]; then
      __membox_preexec "$BASH_COMMAND"
    fi
  }
  trap '__membox_debug_handler' DEBUG
  PROMPT_COMMAND="__membox_precmd${PROMPT_COMMAND:+;$PROMPT_COMMAND}"
fi
`
}

// getInitializationScript returns the shell integration code for the
// given shell *name* (not full path – use filepath.Base before calling).
func getInitializationScript(shellName string) string {
	switch shellName {
	case "bash", "zsh":
		return getBashZshInit()
	default:
		return ""
	}
}

// getEnvSetup returns environment variables needed for shell integration.
func getEnvSetup() []string {
	return []string{
		"TERM=xterm-256color",
	}
}

// defaultShell returns the default shell for the current OS.
func defaultShell() string {
	switch runtime.GOOS {
	case "darwin", "linux":
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell
		}
		shells := []string{"zsh", "bash", "sh"}
		for _, shell := range shells {
			if path, err := exec.LookPath(shell); err == nil {
				return path
			}
		}
		return "/bin/sh" // fallback
	default:
		return "/bin/sh"
	}
}

// createInitFile creates a temporary initialization file with the shell
// integration script. Returns the file path and a cleanup function.
func createInitFile(shellName, initScript string) (string, func(), error) {
	if initScript == "" {
		return "", nil, nil
	}

	var tempFile *os.File
	var err error

	switch shellName {
	case "zsh":
		tempFile, err = os.CreateTemp("", "membox-zsh-init-*.zsh")
	default:
		tempFile, err = os.CreateTemp("", "membox-shell-init-*.sh")
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp init file: %w", err)
	}

	if _, err := tempFile.WriteString(initScript); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return "", nil, fmt.Errorf("failed to write init script: %w", err)
	}

	filePath := tempFile.Name()
	tempFile.Close()

	return filePath, func() { os.Remove(filePath) }, nil
}

// prepareShellCommand prepares the shell command with the membox
// initialization script injected. Returns the shell path, args, and a
// cleanup function (may be nil if no temp file was created).
//
// shellPath may be a full path (e.g. /bin/zsh); the shell name is
// derived via filepath.Base so comparisons always work.
func prepareShellCommand(shellPath string) (string, []string, func(), error) {
	shellName := filepath.Base(shellPath)
	initScript := getInitializationScript(shellName)
	if initScript == "" {
		return shellPath, nil, nil, nil
	}

	initFile, cleanup, err := createInitFile(shellName, initScript)
	if err != nil {
		return "", nil, nil, err
	}

	var args []string
	switch shellName {
	case "bash":
		// --rcfile replaces ~/.bashrc; our init sources ~/.bashrc itself.
		args = []string{"--rcfile", initFile}
	case "zsh":
		// Point ZDOTDIR at a temp dir whose .zshrc is our init file.
		zdotdir, zdotCleanup, zdotErr := createZshZdotdir(initFile)
		if zdotErr == nil && zdotdir != "" {
			origCleanup := cleanup
			cleanup = func() {
				origCleanup()
				zdotCleanup()
			}
			args = []string{"-d", "-f", "--no-globalrcs",
				"-c", fmt.Sprintf("ZDOTDIR=%s exec zsh -i", zdotdir)}
			break
		}
		// Fallback: source init then exec interactive zsh.
		args = []string{"-c", fmt.Sprintf("source %s; exec zsh -i", initFile)}
	default:
		args = []string{"-c", fmt.Sprintf(". %s; exec %s -i", initFile, shellPath)}
	}

	return shellPath, args, cleanup, nil
}

// createZshZdotdir creates a temporary directory to serve as ZDOTDIR for
// zsh. It places the provided initFile content as .zshrc inside it.
func createZshZdotdir(initFile string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "membox-zdotdir-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create zdotdir: %w", err)
	}

	content, err := os.ReadFile(initFile)
	if err != nil {
		os.RemoveAll(dir)
		return "", nil, fmt.Errorf("failed to read init file: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".zshrc"), content, 0o600); err != nil {
		os.RemoveAll(dir)
		return "", nil, fmt.Errorf("failed to write .zshrc: %w", err)
	}

	return dir, func() { os.RemoveAll(dir) }, nil
}
