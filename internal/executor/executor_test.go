package executor

import (
	"context"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}
}

// TestCommandString checks the rendering used in log lines.
func TestCommandString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "systemctl stop cribl.service",
		Command{Name: "systemctl", Args: []string{"stop", "cribl.service"}}.String())
	require.Equal(t, "true", Command{Name: "true"}.String())
}

// TestOSExecutor_Success captures output and the zero exit status.
func TestOSExecutor_Success(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()

	result, err := NewOSExecutor().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo hello >&2"},
		Dir:  dir,
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.ExitCode)
	require.Contains(t, string(result.Output), "hello")
}

// TestOSExecutor_NonZeroExit reports the status and output through ErrCommandFailed.
func TestOSExecutor_NonZeroExit(t *testing.T) {
	t.Parallel()
	requireShell(t)

	result, err := NewOSExecutor().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo cannot stop; exit 3"},
	})
	require.ErrorIs(t, err, ErrCommandFailed)
	require.Equal(t, 3, result.ExitCode)
	require.Contains(t, err.Error(), "exit status 3")
	require.Contains(t, err.Error(), "cannot stop")
}

// TestOSExecutor_MissingProgram fails without a process ever running.
func TestOSExecutor_MissingProgram(t *testing.T) {
	t.Parallel()

	result, err := NewOSExecutor().Run(context.Background(), Command{
		Name: "definitely-not-a-real-program-4d1f",
	})
	require.ErrorIs(t, err, ErrCommandFailed)
	require.Equal(t, -1, result.ExitCode)
}

// TestOutputSuffix trims long output to its tail.
func TestOutputSuffix(t *testing.T) {
	t.Parallel()

	require.Empty(t, outputSuffix([]byte("  \n")))
	require.Equal(t, ": done", outputSuffix([]byte("done\n")))
	require.Equal(t, ": unit not found | exit", outputSuffix([]byte("unit not found\nexit\n")))

	long := make([]byte, maxOutputInError*2)
	for i := range long {
		long[i] = 'x'
	}

	suffix := outputSuffix(long)
	require.Len(t, suffix, len(": ...")+maxOutputInError)
}
