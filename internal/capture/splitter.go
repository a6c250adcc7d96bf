// Package capture turns raw terminal executions into submissions to the
// membox backend. It contains the command splitter, the execution
// processor that decides whether an execution is worth recording, and
// the queued capture adapter that drives submissions through a serial
// operation queue.
package capture

import (
	"regexp"
	"strings"
)

// separators matches the shell control operators a command line is split
// on. The match is purely textual: a separator inside a quoted argument
// is still treated as a boundary. That is a known limitation of the
// heuristic and is intentionally left as-is.
var separators = regexp.MustCompile(`\|\||&&|;`)

// SplitCommands splits raw terminal input into individual command
// strings. The input is split on newlines first, then each line on
// `||`, `&&` and `;`. Fragments are trimmed and empty ones dropped;
// line order and within-line order are preserved. The result is empty
// for blank input or input consisting only of separators.
func SplitCommands(raw string) []string {
	var commands []string
	for _, line := range strings.Split(raw, "\n") {
		for _, fragment := range separators.Split(line, -1) {
			cmd := strings.TrimSpace(fragment)
			if cmd == "" {
				continue
			}
			commands = append(commands, cmd)
		}
	}
	return commands
}
