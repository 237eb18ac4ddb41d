// Package memory provides an in-memory CommandRunner for tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/hsp3-utils/extup/pkg/domain"
)

// Outcome scripts the result for one command name.
type Outcome struct {
	ExitCode   int
	Stdout     string
	Stderr     string
	NotStarted bool   // simulate "command not found"
	Artifact   string // file the command "produces" on success
}

// Runner implements ports.CommandRunner without touching the OS. Outcomes are
// keyed by command name; unscripted commands succeed with empty output.
type Runner struct {
	mu        sync.Mutex
	outcomes  map[string]Outcome
	calls     []domain.Invocation
	artifacts map[string]bool
}

// NewRunner creates a scripted runner.
func NewRunner() *Runner {
	return &Runner{
		outcomes:  make(map[string]Outcome),
		artifacts: make(map[string]bool),
	}
}

// Script sets the outcome for a command name.
func (r *Runner) Script(command string, out Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[command] = out
}

// Run records the invocation and returns its scripted outcome.
func (r *Runner) Run(ctx context.Context, inv domain.Invocation) (domain.CommandResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.CommandResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inv)

	out := r.outcomes[inv.Command]
	if out.NotStarted {
		return domain.CommandResult{Stderr: out.Stderr}, nil
	}
	if out.ExitCode == 0 && out.Artifact != "" {
		r.artifacts[out.Artifact] = true
	}
	return domain.CommandResult{
		ExitCode: out.ExitCode,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		Started:  true,
	}, nil
}

// ArtifactExists reports whether a scripted command produced the artifact.
func (r *Runner) ArtifactExists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.artifacts[name]
}

// PlaceArtifact marks an artifact as present without running anything.
func (r *Runner) PlaceArtifact(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts[name] = true
}

// Calls returns the invocations recorded so far, in order.
func (r *Runner) Calls() []domain.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Invocation, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallCount returns how many times a command name was invoked.
func (r *Runner) CallCount(command string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Command == command {
			n++
		}
	}
	return n
}
