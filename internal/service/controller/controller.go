package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/go-ps"
	gopsproc "github.com/shirou/gopsutil/v4/process"

	"github.com/oshokin/cribl-upgrade/internal/executor"
	"github.com/oshokin/cribl-upgrade/internal/logger"
)

var (
	// ErrProcessControl wraps every failure to start or stop the application.
	ErrProcessControl = errors.New("process control error")
	// ErrStillRunning is returned when the application survives a successful stop command.
	ErrStillRunning = errors.New("application is still running")
)

// ProcessLister returns a snapshot of the processes running on the host.
type ProcessLister func() ([]ps.Process, error)

// ExecutableResolver returns the absolute path of the binary a process was started from.
type ExecutableResolver func(ctx context.Context, pid int) (string, error)

// Controller starts and stops the application with a single Strategy.
type Controller struct {
	strategy       Strategy
	exec           executor.Executor
	listProcesses  ProcessLister
	resolveExe     ExecutableResolver
	home           string
	processName    string
	currentProcess int
}

// Option customizes a Controller.
type Option func(*Controller)

// WithProcessLister replaces the go-ps process listing used after a stop.
// A nil lister disables the check.
func WithProcessLister(lister ProcessLister) Option {
	return func(c *Controller) {
		c.listProcesses = lister
	}
}

// WithExecutableResolver replaces the gopsutil lookup of a process binary.
func WithExecutableResolver(resolver ExecutableResolver) Option {
	return func(c *Controller) {
		c.resolveExe = resolver
	}
}

// WithInstallation limits the check after a stop to processes started from beneath home.
// Without it no process is attributed to the installation and the check passes.
func WithInstallation(home string) Option {
	return func(c *Controller) {
		c.home = home
	}
}

// New creates a Controller that runs strategy commands through exec.
func New(strategy Strategy, exec executor.Executor, options ...Option) *Controller {
	c := &Controller{
		strategy:       strategy,
		exec:           exec,
		listProcesses:  ps.Processes,
		resolveExe:     processExecutable,
		processName:    ServiceName,
		currentProcess: os.Getpid(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Stop stops the application and verifies that no instance of this installation is left running.
func (c *Controller) Stop(ctx context.Context) error {
	if err := c.run(ctx, ActionStop); err != nil {
		return err
	}

	if err := c.ensureStopped(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrProcessControl, err)
	}

	return nil
}

// Start starts the application.
func (c *Controller) Start(ctx context.Context) error {
	return c.run(ctx, ActionStart)
}

// run executes the strategy command for action exactly once.
func (c *Controller) run(ctx context.Context, action Action) error {
	cmd := c.strategy.Command(action)

	logger.DebugKV(ctx, "Controlling application",
		"strategy", c.strategy.Name(), "action", string(action), "command", cmd.String())

	if _, err := c.exec.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %s via %s: %w", ErrProcessControl, action, c.strategy.Name(), err)
	}

	return nil
}

// ensureStopped fails when a process carrying the application name
// and started from the installation root is still alive.
// Same-named processes of other installations are ignored.
func (c *Controller) ensureStopped(ctx context.Context) error {
	if c.listProcesses == nil || c.home == "" {
		return nil
	}

	processes, err := c.listProcesses()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	home := resolveHome(c.home)

	var survivors []int

	for _, process := range processes {
		if process.Pid() == c.currentProcess || process.Executable() != c.processName {
			continue
		}

		exe, err := c.resolveExe(ctx, process.Pid())
		if err != nil {
			// The process exited in the meantime or belongs to another user.
			logger.DebugKV(ctx, "Cannot resolve process executable", "pid", process.Pid(), "error", err)
			continue
		}

		if !insideDir(home, exe) {
			logger.DebugKV(ctx, "Ignoring process of another installation", "pid", process.Pid(), "executable", exe)
			continue
		}

		survivors = append(survivors, process.Pid())
	}

	if len(survivors) == 0 {
		logger.Debug(ctx, "No application processes left after stop")
		return nil
	}

	slices.Sort(survivors)

	return fmt.Errorf("%w: pids %v", ErrStillRunning, survivors)
}

// processExecutable reads the binary path of pid through gopsutil.
func processExecutable(ctx context.Context, pid int) (string, error) {
	//nolint:gosec // Pids fit into int32 on every supported platform.
	process, err := gopsproc.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return "", err
	}

	return process.ExeWithContext(ctx)
}

// resolveHome follows symlinks so that it compares with kernel-reported executable paths.
func resolveHome(home string) string {
	abs, err := filepath.Abs(home)
	if err != nil {
		return filepath.Clean(home)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}

	return abs
}

// insideDir reports whether path lies beneath dir.
func insideDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil {
		return false
	}

	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
