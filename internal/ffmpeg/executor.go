package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ExecResult holds the outcome of a single encoder invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Runner executes one encoder invocation and blocks until it exits. The
// orchestrator depends on this interface rather than os/exec directly so
// tests can record job specs and simulate failures without a real binary.
type Runner interface {
	Run(ctx context.Context, args []string) ExecResult
}

// ExecRunner runs the real ffmpeg binary. When Verbose is set, stderr is
// tee'd to os.Stderr in real time; otherwise it is captured silently for
// error reporting.
type ExecRunner struct {
	Verbose bool
}

// Run executes args[0] with the remaining arguments and waits for exit.
func (r *ExecRunner) Run(ctx context.Context, args []string) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if r.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// StderrTail returns the last n lines of captured stderr, trimmed.
func StderrTail(stderr string, n int) string {
	s := strings.TrimSpace(stderr)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
