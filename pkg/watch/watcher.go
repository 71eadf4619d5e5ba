package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sdejongh/dirsync/pkg/logging"
)

// Watcher reports quiet periods after filesystem activity under a tree
type Watcher struct {
	fw     *fsnotify.Watcher
	root   string
	logger logging.Logger
}

// New starts watching dir and every directory below it. Events are
// buffered from the moment New returns.
func New(dir string, logger logging.Logger) (*Watcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	if _, err := os.Stat(absDir); err != nil {
		return nil, fmt.Errorf("watched directory not found: %w", err)
	}

	if logger == nil {
		logger = logging.NewNullLogger()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{fw: fw, root: absDir, logger: logger}
	if err := w.addRecursive(absDir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	return w, nil
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if err := w.fw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Debug(context.Background(), "watching directory", logging.Fields{"path": path})
		}

		return nil
	})
}

// Run calls fn each time delay elapses without new events. It returns when
// ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, delay time.Duration, fn func(context.Context)) error {
	timer := time.NewTimer(delay)
	timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event.Op) {
				continue
			}

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.Warn(ctx, "failed to watch new directory", logging.Fields{"path": event.Name, "error": err.Error()})
					}
				}
			}

			w.logger.Debug(ctx, "change detected", logging.Fields{"path": event.Name, "op": event.Op.String()})
			timer.Reset(delay)
			pending = timer.C

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error(ctx, "watcher error", err, nil)

		case <-pending:
			pending = nil
			fn(ctx)
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}

// Run watches dir until ctx is cancelled, calling fn after each quiet
// period of delay following filesystem activity
func Run(ctx context.Context, dir string, delay time.Duration, logger logging.Logger, fn func(context.Context)) error {
	w, err := New(dir, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	w.logger.Info(ctx, "watching "+w.root, nil)
	return w.Run(ctx, delay, fn)
}
