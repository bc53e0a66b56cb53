// Package watch re-runs a refresh callback whenever the event store changes
// on disk, and on a fixed tick so running totals stay current.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultThrottle is the minimum time between two change-triggered refreshes.
const DefaultThrottle = time.Second

// Watcher observes a directory tree.
type Watcher struct {
	Root     string
	Interval time.Duration // periodic refresh; 0 disables the tick
	Throttle time.Duration
	// Warn receives non-fatal watcher errors. Nil discards them.
	Warn func(error)

	mu       sync.Mutex
	lastRun  time.Time
	watching map[string]bool
}

// Run calls refresh once, then again on every change below Root and on every
// tick, until ctx is cancelled. A refresh error stops the watcher.
func (w *Watcher) Run(ctx context.Context, refresh func() error) error {
	if w.Root == "" {
		return errors.New("watch: no directory to watch")
	}
	if w.Throttle == 0 {
		w.Throttle = DefaultThrottle
	}
	if err := os.MkdirAll(w.Root, 0o700); err != nil {
		return fmt.Errorf("creating watch directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer fw.Close()

	w.watching = map[string]bool{}
	if err := w.addTree(fw, w.Root); err != nil {
		return err
	}

	if err := w.run(refresh, true); err != nil {
		return err
	}

	var tick <-chan time.Time
	if w.Interval > 0 {
		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			if err := w.run(refresh, true); err != nil {
				return err
			}
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fw, event.Name); err != nil {
						w.warn(err)
					}
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if err := w.run(refresh, false); err != nil {
					return err
				}
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.warn(fmt.Errorf("watcher: %w", err))
		}
	}
}

// run invokes refresh unless forced is false and the last run was less than
// Throttle ago.
func (w *Watcher) run(refresh func() error, forced bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !forced && time.Since(w.lastRun) < w.Throttle {
		return nil
	}
	w.lastRun = time.Now()
	return refresh()
}

// addTree registers dir and every directory below it. fsnotify does not
// watch recursively.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || w.watching[path] {
			return nil
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watcher.Add %s: %w", path, err)
		}
		w.watching[path] = true
		return nil
	})
}

func (w *Watcher) warn(err error) {
	if w.Warn != nil {
		w.Warn(err)
	}
}
