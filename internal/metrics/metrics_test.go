package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsp3-utils/extup/pkg/domain"
)

func TestCollector_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnStageComplete(ctx, &domain.StageEvent{
		Stage: domain.StageInstallDeps,
		Result: domain.StageResult{
			Stage:   domain.StageInstallDeps,
			Status:  domain.StatusPassed,
			Command: domain.CommandResult{Started: true, Duration: 2 * time.Second},
		},
	})
	hooks.OnStageComplete(ctx, &domain.StageEvent{
		Stage:  domain.StagePackage,
		Result: domain.StageResult{Stage: domain.StagePackage, Status: domain.StatusSkipped},
	})
	hooks.OnRunComplete(ctx, &domain.RunEvent{Report: &domain.RunReport{
		Stages: []domain.StageResult{{Stage: domain.StageInstallDeps, Status: domain.StatusPassed}},
	}})
	hooks.OnRunComplete(ctx, &domain.RunEvent{Report: &domain.RunReport{}})

	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.stageOutcomes.WithLabelValues("install-deps", "passed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		c.stageOutcomes.WithLabelValues("package", "skipped")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.runsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.runsTotal.WithLabelValues("failure")))

	// Skipped stages record no duration sample.
	count, err := testutil.GatherAndCount(reg, "extup_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMerge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.RunEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnRunStart:    func(context.Context, *domain.RunEvent) { calls = append(calls, "b") },
		OnRunComplete: func(context.Context, *domain.RunEvent) { calls = append(calls, "b-done") },
	}

	merged := Merge(a, b)
	merged.OnRunStart(context.Background(), &domain.RunEvent{})
	merged.OnRunComplete(context.Background(), &domain.RunEvent{})
	assert.Equal(t, []string{"a", "b", "b-done"}, calls)
	assert.Nil(t, merged.OnStageStart)
}
