// Package watch provides the debounced filesystem trigger behind watch mode.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches editor save bursts into one trigger.
const DefaultDebounce = 500 * time.Millisecond

// ignoredDirs are never watched; they churn constantly during a run.
var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"out":          true,
	"dist":         true,
}

// Watcher emits a signal when something under root changes.
type Watcher struct {
	root     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New creates a watcher over root and all its non-ignored subdirectories.
func New(root string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{root: root, debounce: debounce, fsw: fsw}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if ignoredDirs[d.Name()] {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Events returns a channel that fires once per debounced change burst.
// The channel closes when ctx is cancelled or the watcher closes.
func (w *Watcher) Events(ctx context.Context) <-chan string {
	out := make(chan string, 1)

	go func() {
		defer close(out)

		var timer *time.Timer
		var pending string
		fire := make(chan struct{}, 1)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if ignoreEvent(ev) {
					continue
				}
				pending = ev.Name
				if timer == nil {
					timer = time.AfterFunc(w.debounce, func() {
						select {
						case fire <- struct{}{}:
						default:
						}
					})
				} else {
					timer.Reset(w.debounce)
				}
			case <-fire:
				timer = nil
				select {
				case out <- pending:
				default:
				}
			case _, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out
}

func ignoreEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") && base != ".vscodeignore" {
		return true
	}
	// The pipeline's own output must not retrigger it.
	return strings.HasSuffix(base, ".vsix")
}
