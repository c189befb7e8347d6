package templates

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever the backing file changes on disk, so
// templates edited outside the API show up without a restart. It runs until
// ctx is cancelled.
//
// The parent directory is watched rather than the file itself: the file may
// not exist yet, and atomic saves replace the inode.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	slog.Info("templates: watching for changes", "path", s.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) {
				continue
			}

			if err := s.Reload(); err != nil {
				slog.Error("templates: reload failed — keeping previous set",
					"path", s.path, "err", err)
				continue
			}
			slog.Info("templates: reloaded", "path", s.path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("templates: watcher error", "err", err)
		}
	}
}
