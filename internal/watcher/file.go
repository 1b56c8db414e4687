package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a fixed set of files.
type FileWatcher struct {
	opts  Options
	files map[string]bool
	dirs  map[string]bool
}

// NewFileWatcher creates a watcher for paths. Paths are made absolute.
func NewFileWatcher(paths []string, opts Options) (*FileWatcher, error) {
	w := &FileWatcher{
		opts:  opts.WithDefaults(),
		files: make(map[string]bool, len(paths)),
		dirs:  make(map[string]bool),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = true
		w.dirs[filepath.Dir(abs)] = true
	}
	return w, nil
}

// Run watches until ctx is cancelled, calling handle with each debounced
// batch. handle runs on the watcher goroutine. fsnotify errors are logged
// and watching continues.
func (w *FileWatcher) Run(ctx context.Context, handle func([]FileEvent)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	for dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	debouncer := NewDebouncer(w.opts.DebounceWindow)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if fe, keep := w.convert(event); keep {
				debouncer.Add(fe)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file_watcher_error", slog.String("error", err.Error()))

		case batch, ok := <-debouncer.Output():
			if !ok {
				return nil
			}
			handle(batch)
		}
	}
}

// convert maps an fsnotify event to a FileEvent for a watched file.
func (w *FileWatcher) convert(event fsnotify.Event) (FileEvent, bool) {
	path := filepath.Clean(event.Name)
	if !w.files[path] {
		return FileEvent{}, false
	}

	var op Operation
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove):
		op = OpDelete
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		// chmod
		return FileEvent{}, false
	}
	return FileEvent{Path: path, Operation: op, Timestamp: time.Now()}, true
}
