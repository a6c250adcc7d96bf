package session

import (
	"bytes"
	"encoding/base64"
	"io"
	"strconv"
	"strings"
)

// Execution is one finished terminal command, reconstructed from the
// shell integration markers. ExitCode is nil when the shell did not
// report one.
type Execution struct {
	CommandLine string
	ExitCode    *int
	Workdir     string
}

// ExecutionHandler receives executions as they complete. It is called
// synchronously from the output path and must not block.
type ExecutionHandler func(Execution)

// maxMarkerLen bounds how many bytes may be held back while waiting for
// a marker to close. Anything longer is treated as ordinary output.
const maxMarkerLen = 16 * 1024

// Scanner filters a PTY output stream: membox marker sequences are
// consumed and turned into Execution events, everything else is passed
// through to out unchanged. Markers may arrive split across writes.
type Scanner struct {
	out     io.Writer
	handler ExecutionHandler

	buf         []byte
	pendingCmd  string
	havePending bool
}

// NewScanner creates a scanner forwarding clean output to out and
// executions to handler.
func NewScanner(out io.Writer, handler ExecutionHandler) *Scanner {
	return &Scanner{
		out:     out,
		handler: handler,
	}
}

// Write implements io.Writer over the raw PTY output.
func (s *Scanner) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	if err := s.process(); err != nil {
		return len(p), err
	}
	return len(p), nil
}

func (s *Scanner) process() error {
	start := []byte(markerStart)
	end := []byte(markerEnd)

	for {
		i := bytes.Index(s.buf, start)
		if i < 0 {
			// Flush everything except a trailing partial marker prefix.
			keep := partialPrefixLen(s.buf, start)
			if err := s.flush(len(s.buf) - keep); err != nil {
				return err
			}
			return nil
		}

		if err := s.flush(i); err != nil {
			return err
		}

		j := bytes.Index(s.buf[len(start):], end)
		if j < 0 {
			if len(s.buf) > maxMarkerLen {
				// Marker never closed; treat the opener as plain output.
				if err := s.flush(len(start)); err != nil {
					return err
				}
				continue
			}
			return nil
		}

		payload := string(s.buf[len(start) : len(start)+j])
		s.buf = s.buf[len(start)+j+len(end):]
		s.handleMarker(payload)
	}
}

// flush writes the first n buffered bytes through to out.
func (s *Scanner) flush(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := s.out.Write(s.buf[:n])
	s.buf = s.buf[n:]
	return err
}

// handleMarker interprets one marker payload, e.g.
// "EXEC cmd=Z2l0IHN0YXR1cw==" or "DONE exit=0 cwd=L2hvbWU=".
func (s *Scanner) handleMarker(payload string) {
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "EXEC":
		if cmd, ok := decodeField(fields, "cmd="); ok {
			s.pendingCmd = cmd
			s.havePending = true
		}

	case "DONE":
		if !s.havePending {
			return
		}
		exec := Execution{CommandLine: s.pendingCmd}
		if raw, ok := rawField(fields, "exit="); ok {
			if code, err := strconv.Atoi(raw); err == nil {
				exec.ExitCode = &code
			}
		}
		if cwd, ok := decodeField(fields, "cwd="); ok {
			exec.Workdir = cwd
		}
		s.pendingCmd = ""
		s.havePending = false
		s.handler(exec)
	}
}

func rawField(fields []string, prefix string) (string, bool) {
	for _, f := range fields {
		if strings.HasPrefix(f, prefix) {
			return f[len(prefix):], true
		}
	}
	return "", false
}

func decodeField(fields []string, prefix string) (string, bool) {
	raw, ok := rawField(fields, prefix)
	if !ok {
		return "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

// partialPrefixLen returns the length of the longest suffix of buf that
// is a proper prefix of marker.
func partialPrefixLen(buf, marker []byte) int {
	max := len(marker) - 1
	if len(buf) < max {
		max = len(buf)
	}
	for k := max; k > 0; k-- {
		if bytes.HasSuffix(buf, marker[:k]) {
			return k
		}
	}
	return 0
}
