package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultCommandTimeout caps a single external command when no timeout is configured.
const DefaultCommandTimeout = 10 * time.Second

// ErrExecution is matched by every error returned when an external program
// could not be run to a successful exit.
var ErrExecution = errors.New("command execution failed")

// Result holds the captured output of a finished command
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status zero
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// ExecError describes a command that could not be started, timed out, or
// exited non-zero.
type ExecError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ExecError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *ExecError) Unwrap() []error {
	return []error{ErrExecution, e.Err}
}

// Runner runs an external program.
//
// Run returns an error only when the program could not be run to completion
// (missing binary, timeout, cancellation). A non-zero exit is reported
// through Result.ExitCode with a nil error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context, name string, args ...string) (Result, error)

// Run calls f
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return f(ctx, name, args...)
}

// ExecRunner runs commands on the host with a per-invocation timeout
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner creates a runner with the given timeout, falling back to
// DefaultCommandTimeout when timeout is not positive.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &ExecRunner{Timeout: timeout}
}

// Run executes name with args. The process is killed when ctx is cancelled
// or the timeout elapses.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdline := commandLine(name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, &ExecError{Command: cmdline, ExitCode: -1, Err: ctxErr}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		err = nil
	}
	if err != nil {
		return res, &ExecError{Command: cmdline, ExitCode: -1, Err: err}
	}

	log.Trace().
		Str("command", cmdline).
		Int("exit_code", res.ExitCode).
		Dur("elapsed", time.Since(start)).
		Msg("command finished")
	return res, nil
}

// Output runs a command and returns its stdout, treating a non-zero exit
// as an execution failure.
func Output(ctx context.Context, r Runner, name string, args ...string) (string, error) {
	res, err := r.Run(ctx, name, args...)
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", &ExecError{
			Command:  commandLine(name, args),
			ExitCode: res.ExitCode,
			Err:      errors.New(strings.TrimSpace(res.Stderr)),
		}
	}
	return res.Stdout, nil
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
