// Package executortest provides a recording executor.Executor for tests.
package executortest

import (
	"context"
	"slices"
	"sync"

	"github.com/oshokin/cribl-upgrade/internal/executor"
)

// Handler decides the outcome of a recorded command.
type Handler func(cmd executor.Command) (executor.Result, error)

// Recorder records every command it is asked to run and never starts a process.
type Recorder struct {
	mu       sync.Mutex
	commands []executor.Command
	handler  Handler
}

// NewRecorder returns a Recorder that succeeds for every command unless handler says otherwise.
func NewRecorder(handler Handler) *Recorder {
	return &Recorder{handler: handler}
}

// Run records cmd and returns the handler's verdict.
func (r *Recorder) Run(_ context.Context, cmd executor.Command) (executor.Result, error) {
	r.mu.Lock()
	r.commands = append(r.commands, executor.Command{
		Name: cmd.Name,
		Args: slices.Clone(cmd.Args),
		Dir:  cmd.Dir,
	})
	r.mu.Unlock()

	if r.handler == nil {
		return executor.Result{}, nil
	}

	return r.handler(cmd)
}

// Commands returns a copy of everything recorded so far.
func (r *Recorder) Commands() []executor.Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.commands)
}

// Lines returns the recorded commands rendered with Command.String.
func (r *Recorder) Lines() []string {
	commands := r.Commands()
	lines := make([]string, 0, len(commands))

	for _, cmd := range commands {
		lines = append(lines, cmd.String())
	}

	return lines
}
