package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever a schema file below the directory
// changes. Bursts of events are collapsed into one reload after the
// debounce interval. It blocks until ctx is done. A failed reload is logged
// and the previous index stays in place.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: create watcher: %w", err)
	}
	defer w.Close()

	if err := s.addDirs(w, s.dir); err != nil {
		return fmt.Errorf("store: watch %s: %w", s.dir, err)
	}
	s.opts.Logger.Info("schema watcher started", "dir", s.dir, "debounce_ms", s.opts.Debounce.Milliseconds())

	d := newDebouncer(s.opts.Debounce)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			s.opts.Logger.Info("schema watcher stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("store: watcher events channel closed")
			}
			if ev.Has(fsnotify.Create) {
				if dirCreated(ev.Name) && !isHidden(ev.Name) {
					if err := s.addDirs(w, ev.Name); err != nil {
						s.opts.Logger.Warn("cannot watch new directory", "path", ev.Name, "error", err)
					}
					d.trigger(s.reloadLogged)
					continue
				}
			}
			if !s.relevant(ev) {
				continue
			}
			s.opts.Logger.Debug("schema file event", "path", ev.Name, "op", ev.Op.String())
			d.trigger(s.reloadLogged)

		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("store: watcher errors channel closed")
			}
			s.opts.Logger.Error("schema watcher error", "error", err)
		}
	}
}

func (s *Store) reloadLogged() {
	if err := s.Reload(); err != nil {
		s.opts.Logger.Error("schema reload failed", "error", err)
	}
}

func (s *Store) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return s.wants(ev.Name) && !isHidden(ev.Name)
}

func (s *Store) addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != s.dir && isHidden(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func dirCreated(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// debouncer runs the latest callback once no trigger arrived for interval.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
