package extup

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/hsp3-utils/extup/internal/config"
	"github.com/hsp3-utils/extup/internal/pipeline"
	"github.com/hsp3-utils/extup/pkg/adapters/process"
	"github.com/hsp3-utils/extup/pkg/domain"
	"github.com/hsp3-utils/extup/pkg/ports"
)

// Version is the release version of extup.
var Version = "0.3.0"

// Engine is the high-level entry point for the extup library.
// It wraps the internal pipeline and provides a simplified API for consumers.
type Engine struct {
	pipeline   *pipeline.Engine
	runner     ports.CommandRunner
	workDir    string
	configPath string
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	legacyExit bool
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCommandRunner injects a custom runner, bypassing the default process
// adapter. Tests use this with the in-memory adapter.
func WithCommandRunner(r ports.CommandRunner) Option {
	return func(e *Engine) {
		e.runner = r
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkDir sets the project directory the pipeline operates in
// (default: current directory).
func WithWorkDir(dir string) Option {
	return func(e *Engine) {
		e.workDir = dir
	}
}

// WithConfigPath sets an explicit manifest path instead of the default
// lookup of extup.yaml under the work dir.
func WithConfigPath(path string) Option {
	return func(e *Engine) {
		e.configPath = path
	}
}

// WithLegacyExit selects the historical guard policy. See the package docs.
func WithLegacyExit(enabled bool) Option {
	return func(e *Engine) {
		e.legacyExit = enabled
	}
}

// New initializes the Engine: loads and resolves the manifest, then wires the
// command runner and the pipeline core.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{workDir: "."}
	for _, opt := range opts {
		opt(eng)
	}

	absDir, err := filepath.Abs(eng.workDir)
	if err != nil {
		return nil, err
	}
	eng.workDir = absDir
	eng.Name = filepath.Base(absDir)

	path := eng.configPath
	if path == "" {
		path = filepath.Join(absDir, config.DefaultFileName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	// A manifest can request legacy exit; the option (CLI flag) wins.
	legacy := resolved.LegacyExit || eng.legacyExit

	if eng.runner == nil {
		eng.runner = process.NewRunner(process.WithBaseDir(absDir))
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.DiscardHandler)
	}
	eng.logger = eng.logger.With("project", eng.Name)

	eng.pipeline = pipeline.NewEngine(
		eng.runner,
		resolved.Tools,
		resolved.Stages,
		pipeline.WithLifecycleHooks(eng.hooks),
		pipeline.WithLogger(eng.logger),
		pipeline.WithLegacyExit(legacy),
	)

	return eng, nil
}

// Run executes the full pipeline and returns its report. The report is
// returned even on failure so callers can render it and derive the process
// exit code.
func (e *Engine) Run(ctx context.Context) (*domain.RunReport, error) {
	return e.pipeline.Run(ctx)
}

// Doctor runs only the toolchain checks.
func (e *Engine) Doctor(ctx context.Context) ([]domain.ToolCheck, error) {
	return e.pipeline.CheckToolchain(ctx)
}

// Plan returns the stages that Run would execute, without executing anything.
func (e *Engine) Plan() []domain.Stage {
	return e.pipeline.Stages()
}

// Tools returns the resolved toolchain contract.
func (e *Engine) Tools() []domain.ToolSpec {
	return e.pipeline.Tools()
}

// WorkDir returns the absolute project directory.
func (e *Engine) WorkDir() string {
	return e.workDir
}
