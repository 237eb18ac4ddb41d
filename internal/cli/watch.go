package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hsp3-utils/extup"
	httpadapter "github.com/hsp3-utils/extup/internal/adapters/http"
	"github.com/hsp3-utils/extup/internal/metrics"
	"github.com/hsp3-utils/extup/internal/presentation/tui"
	"github.com/hsp3-utils/extup/internal/watch"
	"github.com/hsp3-utils/extup/pkg/domain"
)

// WatchOptions extends RunOptions with the watch-mode surface.
type WatchOptions struct {
	RunOptions
	Listen   string
	Debounce time.Duration
}

// RunWatch runs the pipeline, then re-runs it on every debounced source
// change, serving /healthz, /status, and /metrics in the background.
func RunWatch(opts WatchOptions) int {
	logger := createLogger(opts.Debug)
	tui.PrintBanner(extup.Version)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	collector := metrics.NewCollector(reg)
	status := httpadapter.NewStatusServer()

	srv := &http.Server{Addr: opts.Listen, Handler: status.Handler(reg)}
	go func() {
		logger.Info("status server listening", "addr", opts.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server stopped", "err", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	runner := extup.NewRunner()
	runner.Output = os.Stdout
	runner.Quiet = opts.Quiet
	if tui.IsTTY() {
		runner.Renderer = tui.NewRenderer()
	}
	hooks := metrics.Merge(runner.Hooks(), collector.Hooks())
	hooks = metrics.Merge(hooks, domain.LifecycleHooks{
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			status.SetReport(e.Report)
		},
	})

	w, err := watch.New(opts.Dir, opts.Debounce)
	if err != nil {
		logger.Error("watcher initialization failed", "err", err)
		printSystemMessage("Cannot watch '%s': %v", opts.Dir, err)
		return domain.ExitFailure
	}
	defer w.Close()

	events := w.Events(sigCtx)
	printSystemMessage("Watching '%s' (status on %s). Ctrl+C to stop.", opts.Dir, opts.Listen)

	runIteration(sigCtx, opts, runner, hooks, logger)
	for {
		select {
		case <-sigCtx.Done():
			printSystemMessage("Watcher stopped.")
			return domain.ExitSuccess
		case path, ok := <-events:
			if !ok {
				return domain.ExitSuccess
			}
			logger.Info("change detected", "path", path)
			printSystemMessage("Change detected: %s", path)
			runIteration(sigCtx, opts, runner, hooks, logger)
		}
	}
}

// runIteration builds a fresh engine and runs the pipeline once. The manifest
// is re-read every iteration so edits to extup.yaml take effect without
// restarting the watcher.
func runIteration(ctx context.Context, opts WatchOptions, runner *extup.Runner, hooks domain.LifecycleHooks, logger *slog.Logger) {
	engine, err := extup.New(opts.engineOptions(extup.WithLifecycleHooks(hooks))...)
	if err != nil {
		logger.Error("engine initialization failed", "err", err)
		printSystemMessage("Manifest error: %v", err)
		return
	}

	code, runErr := runner.Run(ctx, engine)
	if isInterrupted(runErr) {
		return
	}
	if code != domain.ExitSuccess {
		logger.Warn("run failed", "exit_code", code, "err", runErr)
	}
}
