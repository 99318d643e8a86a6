package modules

import (
	"context"

	"github.com/fsnotify/fsnotify"
)

// Watch is an optional capability, separate from the core synchronous
// pipeline: it lets a long-running host (an editor-integration server, a
// watch-mode build loop) learn of changes under the locator's search
// roots and re-run Discover, instead of re-walking the whole tree on every
// edit. Each search root directory is watched itself; its subdirectories
// are not. Every event reported for an entry of a root, whatever the
// entry's extension, is passed to onChange.
//
// Watch blocks until ctx is cancelled or the watcher fails; each observed
// filesystem event invokes onChange. It never runs as part of
// lex/parse/bind/resolve/lower and has no bearing on those stages'
// determinism.
func (l *Locator) Watch(ctx context.Context, onChange func(event fsnotify.Event)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	l.mu.Lock()
	roots := append([]string{}, l.roots...)
	l.mu.Unlock()

	for _, root := range roots {
		if err := watcher.Add(root); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			onChange(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			if err != nil {
				return err
			}
		}
	}
}
