package install

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okarpov/fslogix-agent/internal/domain/deploy"
)

// runExit runs a shell that exits with the given code.
func runExit(t *testing.T, runner *Runner, code int) (int, error) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("test shell not available on windows")
	}

	return runner.RunSilent(context.Background(), "/bin/sh", []string{"-c", "exit " + strconv.Itoa(code)})
}

// TestRunSilentSuccess verifies exit code 0 is accepted by default.
func TestRunSilentSuccess(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil)

	code, err := runExit(t, runner, 0)
	require.NoError(t, err)
	require.Zero(t, code)
}

// TestRunSilentRejectedCodes verifies nonzero codes outside the
// allow-list are reported as install failures.
func TestRunSilentRejectedCodes(t *testing.T) {
	t.Parallel()

	runner := NewRunner([]int{0})

	for _, want := range []int{1, 100, 200} {
		code, err := runExit(t, runner, want)
		require.Equal(t, want, code)

		var installErr *deploy.InstallFailedError

		require.ErrorAs(t, err, &installErr)
		require.Equal(t, want, installErr.Code)
	}
}

// TestRunSilentAllowList verifies additional accepted codes pass.
func TestRunSilentAllowList(t *testing.T) {
	t.Parallel()

	runner := NewRunner([]int{0, 10})

	code, err := runExit(t, runner, 10)
	require.NoError(t, err)
	require.Equal(t, 10, code)
}

// TestRunSilentMissingExecutable verifies process start failures do not
// masquerade as exit codes.
func TestRunSilentMissingExecutable(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil)

	code, err := runner.RunSilent(context.Background(), "/nonexistent/installer", nil)
	require.Error(t, err)
	require.Equal(t, -1, code)

	var installErr *deploy.InstallFailedError

	require.False(t, errors.As(err, &installErr))
}
