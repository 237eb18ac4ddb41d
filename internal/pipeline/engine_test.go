package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsp3-utils/extup/pkg/adapters/memory"
	"github.com/hsp3-utils/extup/pkg/domain"
)

const artifact = "hsp3-vscode-ext.vsix"

func testTools() []domain.ToolSpec {
	return []domain.ToolSpec{{
		Name:        "npm",
		Command:     "npm",
		VersionArgs: []string{"--version"},
		InstallHint: "please install Node.js",
	}}
}

func testStages() []domain.Stage {
	return []domain.Stage{
		{
			ID:         domain.StageInstallDeps,
			Invocation: domain.Invocation{Command: "npm", Args: []string{"ci"}},
		},
		{
			ID:         domain.StagePackage,
			Invocation: domain.Invocation{Command: "npx", Args: []string{"vsce", "package", "-o", artifact}},
			Artifact:   artifact,
		},
		{
			ID:         domain.StageInstallExtension,
			Invocation: domain.Invocation{Command: "code", Args: []string{"--install-extension", artifact}},
		},
	}
}

func successRunner() *memory.Runner {
	r := memory.NewRunner()
	r.Script("npm", memory.Outcome{Stdout: "10.8.1"})
	r.Script("npx", memory.Outcome{Artifact: artifact})
	r.Script("code", memory.Outcome{})
	return r
}

func TestEngine_Run_HappyPath(t *testing.T) {
	runner := successRunner()
	eng := NewEngine(runner, testTools(), testStages())

	report, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.True(t, report.Succeeded())
	assert.Equal(t, domain.ExitSuccess, report.ExitCode())
	assert.NotEmpty(t, report.RunID)

	// Strict sequence: version query, deps, package, install; each exactly once.
	calls := runner.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "npm --version", calls[0].String())
	assert.Equal(t, "npm ci", calls[1].String())
	assert.Equal(t, "npx vsce package -o "+artifact, calls[2].String())
	assert.Equal(t, "code --install-extension "+artifact, calls[3].String())
}

func TestEngine_Run_ToolMissing(t *testing.T) {
	runner := memory.NewRunner()
	runner.Script("npm", memory.Outcome{NotStarted: true, Stderr: "npm: not found"})
	eng := NewEngine(runner, testTools(), testStages())

	report, err := eng.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolMissing)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageCheckToolchain, stageErr.Stage)

	// Exit code 1, no later stage invoked, no artifact produced.
	assert.Equal(t, domain.ExitFailure, report.ExitCode())
	assert.Len(t, runner.Calls(), 1)
	assert.False(t, runner.ArtifactExists(artifact))

	for _, id := range []domain.StageID{domain.StageInstallDeps, domain.StagePackage, domain.StageInstallExtension} {
		res, ok := report.Result(id)
		require.True(t, ok, "missing result for %s", id)
		assert.Equal(t, domain.StatusSkipped, res.Status)
	}
}

func TestEngine_Run_ToolMissingAbortsInLegacyMode(t *testing.T) {
	runner := memory.NewRunner()
	runner.Script("npm", memory.Outcome{NotStarted: true})
	eng := NewEngine(runner, testTools(), testStages(), WithLegacyExit(true))

	report, err := eng.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.ExitFailure, report.ExitCode())
	assert.Len(t, runner.Calls(), 1)
}

func TestEngine_Run_StrictAbortsOnDepsFailure(t *testing.T) {
	runner := successRunner()
	// The scripted runner keys outcomes by command name, and npm must still
	// answer the version query, so deps install gets its own command here.
	stages := testStages()
	stages[0].Invocation = domain.Invocation{Command: "npm-ci"}
	runner.Script("npm-ci", memory.Outcome{ExitCode: 17, Stderr: "EACCES"})
	eng := NewEngine(runner, testTools(), stages)

	report, err := eng.Run(context.Background())
	require.Error(t, err)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageInstallDeps, stageErr.Stage)
	assert.Equal(t, 17, stageErr.ExitCode)
	assert.Equal(t, 17, report.ExitCode())

	// Neither package nor install ran.
	assert.Zero(t, runner.CallCount("npx"))
	assert.Zero(t, runner.CallCount("code"))

	res, ok := report.Result(domain.StagePackage)
	require.True(t, ok)
	assert.Equal(t, domain.StatusSkipped, res.Status)
}

func TestEngine_Run_StrictAbortsOnPackageFailure(t *testing.T) {
	runner := successRunner()
	runner.Script("npx", memory.Outcome{ExitCode: 3, Stderr: "vsce blew up"})
	eng := NewEngine(runner, testTools(), testStages())

	report, err := eng.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, report.ExitCode())
	assert.Zero(t, runner.CallCount("code"))
}

func TestEngine_Run_PackageWithoutArtifactFails(t *testing.T) {
	runner := successRunner()
	// vsce exits zero but leaves nothing behind.
	runner.Script("npx", memory.Outcome{})
	eng := NewEngine(runner, testTools(), testStages())

	report, err := eng.Run(context.Background())
	require.Error(t, err)

	res, ok := report.Result(domain.StagePackage)
	require.True(t, ok)
	assert.Equal(t, domain.StatusFailed, res.Status)
	assert.Contains(t, res.Err, artifact)
	assert.Zero(t, runner.CallCount("code"))
}

func TestEngine_Run_LegacyModeContinuesPastFailures(t *testing.T) {
	t.Run("Last Stage Wins With Success", func(t *testing.T) {
		runner := successRunner()
		stages := testStages()
		stages[0].Invocation = domain.Invocation{Command: "npm-ci"}
		runner.Script("npm-ci", memory.Outcome{ExitCode: 5})
		// Package must still produce the artifact for install to make sense.
		eng := NewEngine(runner, testTools(), stages, WithLegacyExit(true))

		report, err := eng.Run(context.Background())
		require.NoError(t, err, "legacy mode: a passing final stage swallows earlier failures")
		assert.Equal(t, 1, runner.CallCount("npx"))
		assert.Equal(t, 1, runner.CallCount("code"))
		assert.Equal(t, domain.ExitSuccess, report.ExitCode())
		assert.False(t, report.Succeeded())
	})

	t.Run("Last Stage Wins With Failure", func(t *testing.T) {
		runner := successRunner()
		runner.Script("code", memory.Outcome{ExitCode: 9})
		eng := NewEngine(runner, testTools(), testStages(), WithLegacyExit(true))

		report, err := eng.Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, 9, report.ExitCode())
	})
}

func TestEngine_Run_ContextCancellation(t *testing.T) {
	runner := successRunner()
	eng := NewEngine(runner, testTools(), testStages())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Run_EmitsLifecycleEvents(t *testing.T) {
	runner := successRunner()

	var order []string
	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			order = append(order, "run_start")
		},
		OnStageStart: func(_ context.Context, e *domain.StageEvent) {
			order = append(order, "start:"+string(e.Stage))
		},
		OnStageComplete: func(_ context.Context, e *domain.StageEvent) {
			order = append(order, "done:"+string(e.Stage))
		},
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			order = append(order, "run_complete")
			require.NotNil(t, e.Report)
		},
	}

	eng := NewEngine(runner, testTools(), testStages(), WithLifecycleHooks(hooks))
	_, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"run_start",
		"start:check-toolchain", "done:check-toolchain",
		"start:install-deps", "done:install-deps",
		"start:package", "done:package",
		"start:install-extension", "done:install-extension",
		"run_complete",
	}, order)
}

func TestEngine_CheckToolchain(t *testing.T) {
	t.Run("All Present", func(t *testing.T) {
		runner := memory.NewRunner()
		runner.Script("npm", memory.Outcome{Stdout: "10.8.1"})
		runner.Script("code", memory.Outcome{Stdout: "1.92.0"})

		tools := append(testTools(), domain.ToolSpec{
			Name: "code", Command: "code", VersionArgs: []string{"--version"},
		})
		eng := NewEngine(runner, tools, nil)

		checks, err := eng.CheckToolchain(context.Background())
		require.NoError(t, err)
		require.Len(t, checks, 2)
		assert.False(t, checks[0].Missing)
		assert.Equal(t, "10.8.1", checks[0].Result.Stdout)
	})

	t.Run("Stops At First Missing", func(t *testing.T) {
		runner := memory.NewRunner()
		runner.Script("npm", memory.Outcome{NotStarted: true})
		runner.Script("code", memory.Outcome{Stdout: "1.92.0"})

		tools := append(testTools(), domain.ToolSpec{
			Name: "code", Command: "code", VersionArgs: []string{"--version"},
		})
		eng := NewEngine(runner, tools, nil)

		checks, err := eng.CheckToolchain(context.Background())
		require.ErrorIs(t, err, domain.ErrToolMissing)
		require.Len(t, checks, 1)
		assert.True(t, checks[0].Missing)
		assert.Zero(t, runner.CallCount("code"))
	})
}
