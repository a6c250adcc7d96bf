package capture

import "strings"

// Status labels how an execution finished.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Request is one normalized capture produced from a single terminal
// execution. It is immutable once built and consumed exactly once by
// the queued capture adapter.
type Request struct {
	Commands []string
	Workdir  string
	Status   Status
}

// ProcessExecution decides whether a finished terminal execution should
// be captured and, if so, builds the capture request for it.
//
// A blank command line is never captured. The execution counts as a
// success only when an exit code is present and exactly zero; a missing
// exit code is treated as a failure. With onlySuccesses set, failed
// executions are skipped. Returns nil when nothing should be captured.
func ProcessExecution(commandLine string, exitCode *int, workdir string, onlySuccesses bool) *Request {
	if strings.TrimSpace(commandLine) == "" {
		return nil
	}

	status := StatusFailed
	if exitCode != nil && *exitCode == 0 {
		status = StatusSuccess
	}
	if onlySuccesses && status != StatusSuccess {
		return nil
	}

	return &Request{
		Commands: SplitCommands(commandLine),
		Workdir:  workdir,
		Status:   status,
	}
}
