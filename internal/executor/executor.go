package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/oshokin/cribl-upgrade/internal/logger"
)

// maxOutputInError bounds how much command output is copied into an error message.
const maxOutputInError = 512

// ErrCommandFailed is returned when a command could not be started or exited with a non-zero status.
var ErrCommandFailed = errors.New("command failed")

// Command describes a single external process invocation.
type Command struct {
	// Name is the program to run, looked up in PATH when it has no separator.
	Name string
	// Args are passed to the program as-is.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is what a finished command reported back.
type Result struct {
	// ExitCode is the process exit status, or -1 when the process never ran.
	ExitCode int
	// Output holds combined stdout and stderr.
	Output []byte
}

// Executor runs external commands and waits for them to finish.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// OSExecutor runs commands as real child processes.
type OSExecutor struct{}

// NewOSExecutor returns an Executor backed by os/exec.
func NewOSExecutor() *OSExecutor {
	return &OSExecutor{}
}

// Run starts cmd, blocks until it exits and captures its output.
// A non-zero exit status is reported as ErrCommandFailed together with the output tail.
func (e *OSExecutor) Run(ctx context.Context, cmd Command) (Result, error) {
	process := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	process.Dir = cmd.Dir

	var output bytes.Buffer

	process.Stdout = &output
	process.Stderr = &output

	logger.DebugKV(ctx, "Running command", "command", cmd.String(), "dir", cmd.Dir)

	err := process.Run()
	result := Result{
		ExitCode: process.ProcessState.ExitCode(),
		Output:   output.Bytes(),
	}

	if len(result.Output) > 0 {
		logger.DebugKV(ctx, "Command output", "command", cmd.String(), "output", string(result.Output))
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, fmt.Errorf("%w: %s: exit status %d%s",
				ErrCommandFailed, cmd, result.ExitCode, outputSuffix(result.Output))
		}

		return result, fmt.Errorf("%w: %s: %w", ErrCommandFailed, cmd, err)
	}

	return result, nil
}

// outputSuffix formats the tail of the command output for an error message on one line.
func outputSuffix(output []byte) string {
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return ""
	}

	if len(trimmed) > maxOutputInError {
		trimmed = "..." + trimmed[len(trimmed)-maxOutputInError:]
	}

	// Log entries are single lines.
	trimmed = strings.ReplaceAll(trimmed, "\n", " | ")

	return ": " + trimmed
}
