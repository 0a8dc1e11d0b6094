package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions tune Watch.
type WatchOptions struct {
	// Debounce groups bursts of events into one run. Zero means
	// DefaultDebounce.
	Debounce time.Duration
}

// Watch runs the driver once, then again every time an input under paths
// changes, until ctx is done. onResult receives every run's outcome.
func (d *Driver) Watch(ctx context.Context, paths []string, opts WatchOptions, onResult func(*Result, error)) error {
	if len(paths) == 0 {
		paths = d.cfg.Inputs
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	explicit := make(map[string]bool)

	for _, p := range paths {
		if err := d.addWatch(w, p, explicit); err != nil {
			return err
		}
	}

	onResult(d.Run(ctx, paths))

	timer := time.NewTimer(debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("watch stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !d.relevant(w, ev, explicit) {
				continue
			}

			d.logger.Debug("change detected", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			d.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if ctx.Err() != nil {
				return nil
			}

			onResult(d.Run(ctx, paths))
		}
	}
}

// addWatch watches a directory tree, or the directory holding a file.
func (d *Driver) addWatch(w *fsnotify.Watcher, root string, explicit map[string]bool) error {
	st, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("input %s: %w", root, err)
	}

	if !st.IsDir() {
		explicit[filepath.Clean(root)] = true

		if err := w.Add(filepath.Dir(root)); err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}

		return nil
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() {
			return nil
		}

		if path != root && isHidden(entry.Name()) {
			return filepath.SkipDir
		}

		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}

		d.logger.Debug("watching", zap.String("dir", path))

		return nil
	})
}

// relevant reports whether an event should trigger a run. New directories
// are added to the watch list.
func (d *Driver) relevant(w *fsnotify.Watcher, ev fsnotify.Event, explicit map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}

	if ev.Has(fsnotify.Create) {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() && !isHidden(filepath.Base(ev.Name)) {
			if err := d.addWatch(w, ev.Name, explicit); err != nil {
				d.logger.Warn("cannot watch new directory", zap.String("dir", ev.Name), zap.Error(err))
			}

			return false
		}
	}

	name := filepath.Clean(ev.Name)

	return explicit[name] || IsInput(name, d.cfg.Extensions, d.cfg.Suffix)
}
