package registry

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"evctl/pkg/logging"
)

// Watcher signals whenever the registry file changes, so watch mode can
// reconcile as soon as the external manager appends a descriptor.
//
// The parent directory is watched rather than the file itself: the file may
// not exist yet, and editors and the manager replace it atomically via
// rename, which would silently detach a direct file watch.
type Watcher struct {
	events chan struct{}
	fsw    *fsnotify.Watcher
	done   chan struct{}
}

// Watch starts watching the registry file at path.
func Watch(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating registry watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		events: make(chan struct{}, 1),
		fsw:    fsw,
		done:   make(chan struct{}),
	}
	go w.loop(filepath.Base(path))
	return w, nil
}

func (w *Watcher) loop(base string) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logging.Debug("Registry", "registry file changed (%s)", ev.Op)
			// Coalesce: one pending signal is enough, the consumer
			// re-reads the whole file anyway.
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("Registry", "watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Events returns the change signal channel.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
