// Package executor runs subprocesses on behalf of tools, with timeout
// enforcement, process-group cleanup, and bounded output collection.
package executor

import (
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"
)

// ErrTimeout is returned when a command exceeds its timeout.
var ErrTimeout = errors.New("command timeout")

// Result represents the outcome of a command execution.
type Result struct {
	Stdout          string
	Stderr          string
	ExitCode        int
	StdoutTruncated bool
	StderrTruncated bool
}

// Runner executes commands with capped output. The cap applies to stdout
// and stderr independently.
type Runner struct {
	maxOutputChars int
}

// NewRunner creates a Runner. maxOutputChars must be positive.
func NewRunner(maxOutputChars int) *Runner {
	if maxOutputChars < 1 {
		panic("maxOutputChars must be positive")
	}
	return &Runner{maxOutputChars: maxOutputChars}
}

// Run executes argv[0] with the remaining arguments in dir, bounded by
// timeout. On timeout the whole process group is killed so no grandchild
// survives, and ErrTimeout is returned alongside whatever output was
// collected.
func (r *Runner) Run(ctx context.Context, argv []string, dir string, timeout time.Duration) (*Result, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	return r.run(runCtx, cmd, dir)
}

// RunShell executes command through "sh -c" in dir, bounded by timeout.
func (r *Runner) RunShell(ctx context.Context, command string, dir string, timeout time.Duration) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	return r.run(runCtx, cmd, dir)
}

func (r *Runner) run(ctx context.Context, cmd *exec.Cmd, dir string) (*Result, error) {
	cmd.Dir = dir
	cmd.Stdin = nil

	// New process group, so cancellation can take down the entire tree.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	// Unblocks Wait even if an orphaned grandchild still holds the pipes.
	cmd.WaitDelay = 2 * time.Second

	stdout := newCappedBuffer(r.maxOutputChars)
	stderr := newCappedBuffer(r.maxOutputChars)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()

	result := &Result{
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		StdoutTruncated: stdout.Truncated(),
		StderrTruncated: stderr.Truncated(),
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.ExitCode = -1
		return result, ErrTimeout
	}
	if ctx.Err() != nil {
		result.ExitCode = -1
		return result, ctx.Err()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Command ran and failed: the exit code is the answer,
			// not an execution error.
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, err
	}

	result.ExitCode = 0
	return result, nil
}

// cappedBuffer collects writes up to a fixed number of bytes and records
// whether anything was dropped.
type cappedBuffer struct {
	buf       []byte
	max       int
	truncated bool
}

func newCappedBuffer(max int) *cappedBuffer {
	return &cappedBuffer{max: max}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := b.max - len(b.buf)
	if remaining <= 0 {
		b.truncated = true
		return len(p), nil // keep draining so the child never blocks
	}
	if len(p) > remaining {
		b.buf = append(b.buf, p[:remaining]...)
		b.truncated = true
	} else {
		b.buf = append(b.buf, p...)
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return string(b.buf)
}

func (b *cappedBuffer) Truncated() bool {
	return b.truncated
}
