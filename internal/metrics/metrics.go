// Package metrics wires Prometheus collectors into the pipeline's lifecycle
// hooks. Used by watch mode, where runs repeat and a scrape endpoint exists.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hsp3-utils/extup/pkg/domain"
)

// Collector owns the pipeline metrics and exposes them as lifecycle hooks.
type Collector struct {
	runsTotal     *prometheus.CounterVec
	stageOutcomes *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewCollector creates and registers the collectors on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extup_runs_total",
				Help: "Total pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		stageOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extup_stage_outcomes_total",
				Help: "Stage completions by stage and status",
			},
			[]string{"stage", "status"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "extup_stage_duration_seconds",
				Help:    "Wall time of stage commands",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"stage"},
		),
	}
	reg.MustRegister(c.runsTotal, c.stageOutcomes, c.stageDuration)
	return c
}

// Hooks returns lifecycle hooks that feed the collectors.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageComplete: func(_ context.Context, e *domain.StageEvent) {
			c.stageOutcomes.WithLabelValues(string(e.Stage), string(e.Result.Status)).Inc()
			if e.Result.Status != domain.StatusSkipped {
				c.stageDuration.WithLabelValues(string(e.Stage)).Observe(e.Result.Command.Duration.Seconds())
			}
		},
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			outcome := "failure"
			if e.Report != nil && e.Report.Succeeded() {
				outcome = "success"
			}
			c.runsTotal.WithLabelValues(outcome).Inc()
		},
	}
}

// Merge combines two hook sets, calling both sides.
func Merge(a, b domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart:      mergeRun(a.OnRunStart, b.OnRunStart),
		OnRunComplete:   mergeRun(a.OnRunComplete, b.OnRunComplete),
		OnStageStart:    mergeStage(a.OnStageStart, b.OnStageStart),
		OnStageComplete: mergeStage(a.OnStageComplete, b.OnStageComplete),
	}
}

func mergeRun(a, b func(context.Context, *domain.RunEvent)) func(context.Context, *domain.RunEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func mergeStage(a, b func(context.Context, *domain.StageEvent)) func(context.Context, *domain.StageEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.StageEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
