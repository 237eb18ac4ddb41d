package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hsp3-utils/extup"
	"github.com/hsp3-utils/extup/internal/metrics"
	"github.com/hsp3-utils/extup/internal/presentation/tui"
	"github.com/hsp3-utils/extup/pkg/domain"
)

// RunOptions carries the flags shared by the install-family commands.
type RunOptions struct {
	Dir        string
	ConfigPath string
	LegacyExit bool
	Debug      bool
	Quiet      bool
	JSON       bool
}

func (o RunOptions) engineOptions(extra ...extup.Option) []extup.Option {
	opts := []extup.Option{
		extup.WithWorkDir(o.Dir),
		extup.WithLogger(createLogger(o.Debug)),
	}
	if o.ConfigPath != "" {
		opts = append(opts, extup.WithConfigPath(o.ConfigPath))
	}
	if o.LegacyExit {
		opts = append(opts, extup.WithLegacyExit(true))
	}
	return append(opts, extra...)
}

// RunInstall executes the full pipeline and returns the process exit code.
func RunInstall(opts RunOptions) int {
	runner := extup.NewRunner()
	runner.Output = os.Stdout
	runner.Quiet = opts.Quiet || opts.JSON
	if !opts.JSON && tui.IsTTY() {
		runner.Renderer = tui.NewRenderer()
	}

	hooks := runner.Hooks()
	if opts.JSON {
		hooks = metrics.Merge(hooks, jsonHooks(os.Stdout))
	}

	engine, err := extup.New(opts.engineOptions(extup.WithLifecycleHooks(hooks))...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitConfigError
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	code, runErr := runner.Run(sigCtx, engine)
	if isInterrupted(runErr) {
		if sigCtx.Signal() == os.Interrupt {
			fmt.Println("[CTRL+C]")
		}
		return domain.ExitSuccess
	}
	return code
}

// RunDoctor checks the toolchain only.
func RunDoctor(opts RunOptions) int {
	engine, err := extup.New(opts.engineOptions()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitConfigError
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	checks, docErr := engine.Doctor(sigCtx)
	if isInterrupted(docErr) {
		return domain.ExitSuccess
	}

	if opts.JSON {
		enc := json.NewEncoder(os.Stdout)
		for _, c := range checks {
			enc.Encode(c)
		}
	} else {
		md := tui.DoctorMarkdown(checks)
		if tui.IsTTY() {
			if rendered, err := tui.NewRenderer()(md); err == nil {
				md = rendered
			}
		}
		fmt.Println(md)
	}

	if docErr != nil {
		return domain.ExitFailure
	}
	return domain.ExitSuccess
}

// RunPlan prints the resolved stages without executing anything.
func RunPlan(opts RunOptions) int {
	engine, err := extup.New(opts.engineOptions()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitConfigError
	}

	if opts.JSON {
		json.NewEncoder(os.Stdout).Encode(engine.Plan())
		return domain.ExitSuccess
	}

	printSystemMessage("Plan for '%s':", engine.WorkDir())
	for _, tool := range engine.Tools() {
		fmt.Printf("  require %-20s %s\n", tool.Name, tool.VersionInvocation().String())
	}
	for _, stage := range engine.Plan() {
		if stage.Invocation.Command == "" {
			continue
		}
		fmt.Printf("  %-28s %s\n", stage.ID, stage.Invocation.String())
	}
	return domain.ExitSuccess
}

// jsonHooks emits every lifecycle event as one NDJSON line.
func jsonHooks(w io.Writer) domain.LifecycleHooks {
	enc := json.NewEncoder(w)
	return domain.LifecycleHooks{
		OnRunStart:      func(_ context.Context, e *domain.RunEvent) { enc.Encode(e) },
		OnStageStart:    func(_ context.Context, e *domain.StageEvent) { enc.Encode(e) },
		OnStageComplete: func(_ context.Context, e *domain.StageEvent) { enc.Encode(e) },
		OnRunComplete:   func(_ context.Context, e *domain.RunEvent) { enc.Encode(e) },
	}
}
