package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/fakeyudi/labs/internal/session"
)

// Watch follows the session root and calls emit once for every record that
// completes (its exit status is written) after Watch starts. It blocks until
// ctx is done or the watcher fails.
func Watch(ctx context.Context, store *session.Store, emit func(session.Record)) error {
	root := store.Root()
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}

	// Records complete before we started are history, not news.
	seen := make(map[int]bool)
	indices, err := store.ListRecords()
	if err != nil {
		return err
	}
	for _, idx := range indices {
		rec, err := store.Load(idx)
		if err != nil {
			return err
		}
		if rec.Complete() {
			seen[idx] = true
			continue
		}
		// Incomplete records may still finish.
		if err := watcher.Add(rec.Dir); err != nil {
			return fmt.Errorf("watching %s: %w", rec.Dir, err)
		}
	}

	check := func(dir string) {
		idx, _, ok := session.ParseDirName(filepath.Base(dir))
		if !ok || seen[idx] {
			return
		}
		rec, err := store.Load(idx)
		if err != nil || !rec.Complete() {
			return
		}
		seen[idx] = true
		emit(rec)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch {
			case filepath.Dir(ev.Name) == root && ev.Has(fsnotify.Create):
				if _, _, ok := session.ParseDirName(filepath.Base(ev.Name)); !ok {
					continue
				}
				if err := watcher.Add(ev.Name); err != nil {
					// Removed between the event and Add.
					if errors.Is(err, os.ErrNotExist) {
						continue
					}
					return fmt.Errorf("watching %s: %w", ev.Name, err)
				}
				// The status may have been written before the watch was added.
				check(ev.Name)
			case filepath.Base(ev.Name) == session.ExitStatusFile && (ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)):
				check(filepath.Dir(ev.Name))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", root, err)
		}
	}
}
