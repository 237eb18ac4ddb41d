// Package process implements the CommandRunner port on top of os/exec.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hsp3-utils/extup/pkg/domain"
)

// Runner executes invocations as local child processes, capturing their
// output. It is the only place in the module that touches os/exec.
type Runner struct {
	baseDir string
	environ []string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithEnviron replaces the inherited environment (mainly for tests).
func WithEnviron(env []string) RunnerOption {
	return func(r *Runner) {
		r.environ = env
	}
}

// NewRunner creates a new process runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the invocation and reports its outcome. A non-zero exit is not
// an error return; see ports.CommandRunner.
func (r *Runner) Run(ctx context.Context, inv domain.Invocation) (domain.CommandResult, error) {
	if inv.Command == "" {
		return domain.CommandResult{}, fmt.Errorf("empty command in invocation")
	}

	cmd := exec.CommandContext(ctx, inv.Command, inv.Args...)
	cmd.Dir = r.baseDir
	if inv.Dir != "" {
		cmd.Dir = inv.Dir
	}

	env := r.environ
	if env == nil {
		env = os.Environ()
	}
	for k, v := range inv.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := domain.CommandResult{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
		Started:  true,
	}

	if err == nil {
		return result, nil
	}

	// Context cancellation trumps whatever the process reported.
	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	// The process never started (command not found, permission denied).
	result.Started = false
	return result, nil
}

// ArtifactExists reports whether the named file exists under the base dir.
func (r *Runner) ArtifactExists(name string) bool {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, name)
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
