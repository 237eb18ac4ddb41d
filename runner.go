package extup

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hsp3-utils/extup/internal/presentation/tui"
	"github.com/hsp3-utils/extup/pkg/domain"
)

// Runner drives an Engine and writes progress plus the final report to the
// provided IO. This keeps the core free of terminal concerns and makes the
// output easy to capture in tests.
type Runner struct {
	Output   io.Writer
	Quiet    bool
	Renderer ContentRenderer
}

// ContentRenderer transforms the report markdown before output. This allows
// for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner; the caller sets Output (use os.Stdout).
func NewRunner() *Runner {
	return &Runner{}
}

// Hooks returns lifecycle hooks that print per-stage progress. Pass them to
// New via WithLifecycleHooks when building the Engine this Runner will drive.
func (r *Runner) Hooks() domain.LifecycleHooks {
	if r.Quiet {
		return domain.LifecycleHooks{}
	}
	return domain.LifecycleHooks{
		OnStageStart: func(_ context.Context, e *domain.StageEvent) {
			if e.Invocation.Command != "" {
				fmt.Fprintf(r.out(), "▶ %s: %s\n", e.Stage, e.Invocation.String())
			} else {
				fmt.Fprintf(r.out(), "▶ %s\n", e.Stage)
			}
		},
		OnStageComplete: func(_ context.Context, e *domain.StageEvent) {
			switch e.Result.Status {
			case domain.StatusPassed:
				fmt.Fprintf(r.out(), "✓ %s (%s)\n", e.Stage, e.Result.Command.Duration.Round(time.Millisecond))
			case domain.StatusFailed:
				fmt.Fprintf(r.out(), "✗ %s: %s\n", e.Stage, e.Result.Err)
			}
		},
	}
}

// Run executes the engine's pipeline, renders the report, and returns the
// process exit code to surface.
func (r *Runner) Run(ctx context.Context, engine *Engine) (int, error) {
	if r.Output == nil {
		return domain.ExitFailure, fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	report, runErr := engine.Run(ctx)
	if ctx.Err() != nil {
		return domain.ExitFailure, ctx.Err()
	}

	// On a missing toolchain the hint is the contract: it must reach the
	// operator even in quiet mode.
	if res, ok := report.Result(domain.StageCheckToolchain); ok && res.Failed() {
		r.printHints(engine.Tools(), res)
	}

	if !r.Quiet {
		r.render(tui.ReportMarkdown(report))
	}

	return report.ExitCode(), runErr
}

func (r *Runner) printHints(tools []domain.ToolSpec, res domain.StageResult) {
	for _, tool := range tools {
		if !strings.HasPrefix(res.Err, tool.Name+":") {
			continue
		}
		hint := strings.TrimSpace(tool.InstallHint)
		if hint == "" {
			hint = fmt.Sprintf("required tool %q is not installed", tool.Name)
		}
		fmt.Fprintln(r.out(), hint)
	}
}

func (r *Runner) render(markdown string) {
	output := markdown
	if r.Renderer != nil {
		if rendered, err := r.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.out(), strings.TrimSpace(output))
}

func (r *Runner) out() io.Writer {
	if r.Output == nil {
		return io.Discard
	}
	return r.Output
}
