// Package pipeline contains the core sequential executor behind the extup
// facade. It knows nothing about cobra, YAML, or terminals; it walks stages,
// applies the guard policy, and emits lifecycle events.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hsp3-utils/extup/pkg/domain"
	"github.com/hsp3-utils/extup/pkg/ports"
)

// Engine executes the fixed install pipeline.
type Engine struct {
	runner     ports.CommandRunner
	tools      []domain.ToolSpec
	stages     []domain.Stage
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	legacyExit bool
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLegacyExit selects the historical guard policy: failures in the middle
// stages are logged but do not abort, and the last executed stage's exit code
// wins. The toolchain check aborts in both policies.
func WithLegacyExit(enabled bool) EngineOption {
	return func(e *Engine) {
		e.legacyExit = enabled
	}
}

// NewEngine creates an engine for the given toolchain contract and stages.
func NewEngine(runner ports.CommandRunner, tools []domain.ToolSpec, stages []domain.Stage, opts ...EngineOption) *Engine {
	e := &Engine{
		runner: runner,
		tools:  tools,
		stages: stages,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stages returns the resolved stages in execution order, the toolchain check
// included. Used by plan output; nothing is executed.
func (e *Engine) Stages() []domain.Stage {
	out := make([]domain.Stage, 0, len(e.stages)+1)
	out = append(out, domain.Stage{
		ID:          domain.StageCheckToolchain,
		Description: "Check toolchain",
	})
	out = append(out, e.stages...)
	return out
}

// Tools returns the toolchain contract.
func (e *Engine) Tools() []domain.ToolSpec {
	return e.tools
}

// CheckToolchain runs every tool's version query. It stops at the first
// missing tool; tools after it are not probed, mirroring the run behavior.
func (e *Engine) CheckToolchain(ctx context.Context) ([]domain.ToolCheck, error) {
	checks := make([]domain.ToolCheck, 0, len(e.tools))
	for _, tool := range e.tools {
		res, err := e.runner.Run(ctx, tool.VersionInvocation())
		if err != nil {
			return checks, fmt.Errorf("version query for %s: %w", tool.Name, err)
		}
		check := domain.ToolCheck{Tool: tool, Result: res, Missing: !res.Ok()}
		checks = append(checks, check)
		if check.Missing {
			e.logger.Warn("tool missing", "tool", tool.Name)
			return checks, fmt.Errorf("%s: %w", tool.Name, domain.ErrToolMissing)
		}
		e.logger.Debug("tool present", "tool", tool.Name, "version", res.Stdout)
	}
	return checks, nil
}

// Run executes the pipeline and returns its report. The error is non-nil when
// the run did not fully succeed; the report is always returned so callers can
// render and derive the exit code.
func (e *Engine) Run(ctx context.Context) (*domain.RunReport, error) {
	report := &domain.RunReport{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		LegacyExit: e.legacyExit,
	}
	e.emitRun(ctx, domain.EventRunStart, report, nil)
	defer func() {
		report.FinishedAt = time.Now()
		e.emitRun(ctx, domain.EventRunComplete, report, report)
	}()

	// Toolchain check aborts unconditionally: running npm ci without npm is
	// never useful, and the historical script guarded exactly this step.
	toolRes, err := e.runToolchainStage(ctx, report)
	if err != nil {
		return report, err
	}
	if toolRes.Failed() {
		e.skipRemaining(report, 0)
		return report, &domain.StageError{
			Stage:    domain.StageCheckToolchain,
			ExitCode: domain.ExitFailure,
			Err:      domain.ErrToolMissing,
		}
	}

	for i, stage := range e.stages {
		if ctx.Err() != nil {
			e.skipRemaining(report, i)
			return report, ctx.Err()
		}

		res, err := e.runStage(ctx, report.RunID, stage)
		report.Stages = append(report.Stages, res)
		if err != nil {
			e.skipRemaining(report, i+1)
			return report, err
		}

		if res.Failed() {
			if !e.legacyExit {
				e.skipRemaining(report, i+1)
				return report, &domain.StageError{
					Stage:    stage.ID,
					ExitCode: exitCodeOf(res),
					Err:      fmt.Errorf("%s", res.Err),
				}
			}
			// Historical behavior: note it and keep going.
			e.logger.Warn("stage failed, continuing (legacy exit mode)",
				"stage", stage.ID, "exit_code", res.Command.ExitCode)
		}
	}

	// Legacy mode: the last executed stage wins, exactly like the shell
	// script. A failing middle stage followed by a passing final one is a
	// "successful" run as far as the exit code is concerned.
	if n := len(report.Stages); n > 0 && report.Stages[n-1].Failed() {
		last := report.Stages[n-1]
		return report, &domain.StageError{
			Stage:    last.Stage,
			ExitCode: exitCodeOf(last),
			Err:      fmt.Errorf("%s", last.Err),
		}
	}
	return report, nil
}

// runToolchainStage probes the tools and folds the outcome into one stage
// result. The error return is reserved for runner-level failures.
func (e *Engine) runToolchainStage(ctx context.Context, report *domain.RunReport) (domain.StageResult, error) {
	start := time.Now()
	e.emitStage(ctx, domain.EventStageStart, report.RunID, domain.Stage{ID: domain.StageCheckToolchain}, nil)

	res := domain.StageResult{Stage: domain.StageCheckToolchain, Status: domain.StatusPassed}
	checks, err := e.CheckToolchain(ctx)
	if len(checks) > 0 {
		res.Command = checks[len(checks)-1].Result
	}
	res.Command.Duration = time.Since(start)

	if err != nil {
		res.Status = domain.StatusFailed
		res.Err = err.Error()
		if ctx.Err() != nil {
			report.Stages = append(report.Stages, res)
			e.emitStage(ctx, domain.EventStageComplete, report.RunID, domain.Stage{ID: domain.StageCheckToolchain}, &res)
			return res, ctx.Err()
		}
	}

	report.Stages = append(report.Stages, res)
	e.emitStage(ctx, domain.EventStageComplete, report.RunID, domain.Stage{ID: domain.StageCheckToolchain}, &res)
	return res, nil
}

func (e *Engine) runStage(ctx context.Context, runID string, stage domain.Stage) (domain.StageResult, error) {
	e.logger.Info("stage start", "stage", stage.ID, "command", stage.Invocation.String())
	e.emitStage(ctx, domain.EventStageStart, runID, stage, nil)

	result := domain.StageResult{Stage: stage.ID}

	cmdRes, err := e.runner.Run(ctx, stage.Invocation)
	result.Command = cmdRes
	switch {
	case err != nil:
		result.Status = domain.StatusFailed
		result.Err = err.Error()
		e.emitStage(ctx, domain.EventStageComplete, runID, stage, &result)
		return result, err
	case !cmdRes.Started:
		result.Status = domain.StatusFailed
		result.Err = fmt.Sprintf("%s could not be started", stage.Invocation.Command)
	case cmdRes.ExitCode != 0:
		result.Status = domain.StatusFailed
		result.Err = fmt.Sprintf("%s exited with code %d", stage.Invocation.Command, cmdRes.ExitCode)
	default:
		result.Status = domain.StatusPassed
	}

	// A packaging command that exits zero but leaves no artifact behind is
	// still a failure; the install stage would only fail later and worse.
	if result.Status == domain.StatusPassed && stage.Artifact != "" {
		if checker, ok := e.runner.(ports.ArtifactChecker); ok && !checker.ArtifactExists(stage.Artifact) {
			result.Status = domain.StatusFailed
			result.Err = fmt.Sprintf("%s: %v", stage.Artifact, domain.ErrArtifactMissing)
		}
	}

	if result.Failed() {
		e.logger.Warn("stage failed", "stage", stage.ID, "err", result.Err, "stderr", cmdRes.Stderr)
	} else {
		e.logger.Info("stage passed", "stage", stage.ID, "duration", cmdRes.Duration)
	}
	e.emitStage(ctx, domain.EventStageComplete, runID, stage, &result)
	return result, nil
}

func (e *Engine) skipRemaining(report *domain.RunReport, fromStage int) {
	for _, stage := range e.stages[fromStage:] {
		if _, done := report.Result(stage.ID); done {
			continue
		}
		report.Stages = append(report.Stages, domain.StageResult{
			Stage:  stage.ID,
			Status: domain.StatusSkipped,
		})
	}
}

func (e *Engine) emitRun(ctx context.Context, typ domain.EventType, report *domain.RunReport, payload *domain.RunReport) {
	var fn func(context.Context, *domain.RunEvent)
	switch typ {
	case domain.EventRunStart:
		fn = e.hooks.OnRunStart
	case domain.EventRunComplete:
		fn = e.hooks.OnRunComplete
	}
	if fn == nil {
		return
	}
	fn(ctx, &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, RunID: report.RunID},
		Report:    payload,
	})
}

func (e *Engine) emitStage(ctx context.Context, typ domain.EventType, runID string, stage domain.Stage, result *domain.StageResult) {
	var fn func(context.Context, *domain.StageEvent)
	switch typ {
	case domain.EventStageStart:
		fn = e.hooks.OnStageStart
	case domain.EventStageComplete:
		fn = e.hooks.OnStageComplete
	}
	if fn == nil {
		return
	}
	ev := &domain.StageEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: typ, RunID: runID},
		Stage:      stage.ID,
		Invocation: stage.Invocation,
	}
	if result != nil {
		ev.Result = *result
	}
	fn(ctx, ev)
}

func exitCodeOf(res domain.StageResult) int {
	if res.Command.Started && res.Command.ExitCode != 0 {
		return res.Command.ExitCode
	}
	return domain.ExitFailure
}
