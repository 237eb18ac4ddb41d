package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsp3-utils/extup/pkg/domain"
)

func TestRunner_Scripting(t *testing.T) {
	r := NewRunner()
	r.Script("npm", Outcome{Stdout: "10.8.1"})
	r.Script("vsce", Outcome{Artifact: "ext.vsix"})
	r.Script("broken", Outcome{ExitCode: 2, Stderr: "nope"})
	r.Script("ghost", Outcome{NotStarted: true})

	ctx := context.Background()

	res, err := r.Run(ctx, domain.Invocation{Command: "npm", Args: []string{"--version"}})
	require.NoError(t, err)
	assert.True(t, res.Ok())
	assert.Equal(t, "10.8.1", res.Stdout)

	res, err = r.Run(ctx, domain.Invocation{Command: "broken"})
	require.NoError(t, err)
	assert.True(t, res.Started)
	assert.Equal(t, 2, res.ExitCode)

	res, err = r.Run(ctx, domain.Invocation{Command: "ghost"})
	require.NoError(t, err)
	assert.False(t, res.Started)

	// Unscripted commands succeed.
	res, err = r.Run(ctx, domain.Invocation{Command: "anything"})
	require.NoError(t, err)
	assert.True(t, res.Ok())

	assert.Equal(t, 1, r.CallCount("npm"))
	assert.Len(t, r.Calls(), 4)
}

func TestRunner_Artifacts(t *testing.T) {
	r := NewRunner()
	r.Script("vsce", Outcome{Artifact: "ext.vsix"})

	assert.False(t, r.ArtifactExists("ext.vsix"))
	_, err := r.Run(context.Background(), domain.Invocation{Command: "vsce"})
	require.NoError(t, err)
	assert.True(t, r.ArtifactExists("ext.vsix"))

	r.PlaceArtifact("other.vsix")
	assert.True(t, r.ArtifactExists("other.vsix"))
}

func TestRunner_RespectsContext(t *testing.T) {
	r := NewRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, domain.Invocation{Command: "npm"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, r.Calls())
}
