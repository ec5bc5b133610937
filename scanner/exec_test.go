package scanner

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	r := NewExecRunner(5 * time.Second)

	res, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")

	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.True(t, res.Success())
}

func TestExecRunnerNonZeroExitIsNotAnError(t *testing.T) {
	r := NewExecRunner(5 * time.Second)

	res, err := r.Run(context.Background(), "sh", "-c", "exit 3")

	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Success())
}

func TestExecRunnerTimeout(t *testing.T) {
	r := NewExecRunner(50 * time.Millisecond)

	_, err := r.Run(context.Background(), "sleep", "5")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecution)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := NewExecRunner(time.Second)

	_, err := r.Run(context.Background(), "netninja-definitely-not-installed")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecution)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestNewExecRunnerDefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultCommandTimeout, NewExecRunner(0).Timeout)
	assert.Equal(t, DefaultCommandTimeout, NewExecRunner(-time.Second).Timeout)
}

func TestOutput(t *testing.T) {
	ok := RunnerFunc(func(ctx context.Context, name string, args ...string) (Result, error) {
		return Result{Stdout: "hello"}, nil
	})
	out, err := Output(context.Background(), ok, "echo")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	failing := RunnerFunc(func(ctx context.Context, name string, args ...string) (Result, error) {
		return Result{ExitCode: 2, Stderr: "permission denied\n"}, nil
	})
	_, err = Output(context.Background(), failing, "journalctl", "-u", "ssh")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecution)

	var execErr *ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 2, execErr.ExitCode)
	assert.Equal(t, "journalctl -u ssh", execErr.Command)
	assert.EqualError(t, err, "journalctl -u ssh exited with status 2")

	broken := RunnerFunc(func(ctx context.Context, name string, args ...string) (Result, error) {
		return Result{}, &ExecError{Command: name, ExitCode: -1, Err: exec.ErrNotFound}
	})
	_, err = Output(context.Background(), broken, "ss")
	assert.ErrorIs(t, err, exec.ErrNotFound)
}
