package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_EmitsDebouncedEvent(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events := w.Events(ctx)

	// A burst of writes should collapse into one trigger.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "extension.ts"), []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case path := <-events:
		assert.Contains(t, path, "extension.ts")
	case <-ctx.Done():
		t.Fatal("no event before timeout")
	}
}

func TestWatcher_ContextCancelClosesChannel(t *testing.T) {
	w, err := New(t.TempDir(), 10*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events := w.Events(ctx)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should close, not deliver")
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close")
	}
}

func TestIgnoreEvent(t *testing.T) {
	assert.True(t, ignoreEvent(fsnotify.Event{Name: "/p/out.vsix", Op: fsnotify.Create}),
		"pipeline output must not retrigger the pipeline")
	assert.True(t, ignoreEvent(fsnotify.Event{Name: "/p/.DS_Store", Op: fsnotify.Write}))
	assert.True(t, ignoreEvent(fsnotify.Event{Name: "/p/a.ts", Op: fsnotify.Chmod}))
	assert.False(t, ignoreEvent(fsnotify.Event{Name: "/p/a.ts", Op: fsnotify.Write}))
	assert.False(t, ignoreEvent(fsnotify.Event{Name: "/p/.vscodeignore", Op: fsnotify.Write}))
}
