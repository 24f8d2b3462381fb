package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/banshee-data/particles/internal/monitoring"
	"github.com/banshee-data/particles/internal/timeutil"
)

var logf = monitoring.Tagged("Config")

// DefaultSettle is how long the watcher waits after the last filesystem
// event before reloading. Editors often write a file in several steps.
const DefaultSettle = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming a temporary file over the original are
// still seen.
type Watcher struct {
	path     string
	clock    timeutil.Clock
	settle   time.Duration
	onChange func(*DemoConfig)

	fw *fsnotify.Watcher
}

// NewWatcher starts watching path. onChange receives every successfully
// loaded and validated config; invalid files are logged and skipped.
func NewWatcher(path string, clock timeutil.Clock, settle time.Duration, onChange func(*DemoConfig)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, clock: clock, settle: settle, onChange: onChange, fw: fw}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run delivers reloads until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()

	timer := w.clock.NewTimer(w.settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Stop()
			timer.Reset(w.settle)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			logf("watch error: %v", err)
		case <-timer.C():
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadDemoConfig(w.path)
	if err != nil {
		logf("ignoring %s: %v", w.path, err)
		return
	}
	logf("reloaded %s", w.path)
	w.onChange(cfg)
}
