package xmlfile

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever the document is replaced or modified
// on disk, until ctx is cancelled. Writes made through the store itself do
// not trigger a reload. A document that fails to parse is logged and the
// previous records are kept.
func (s *Store) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// watch the directory: saves replace the file, which drops a watch on
	// the file itself
	if err := fsw.Add(filepath.Dir(s.path)); err != nil {
		return err
	}
	s.logger.Info("watching period document", slog.String("path", s.path))

	timer := time.NewTimer(s.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Debug("period document changed", slog.String("op", event.Op.String()))
			timer.Reset(s.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", slog.Any("error", err))

		case <-timer.C:
			s.reloadFromWatch()
		}
	}
}

func (s *Store) reloadFromWatch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := s.reload()
	if err != nil {
		s.logger.Warn("failed to reload period document",
			slog.String("path", s.path),
			slog.Any("error", err))
		return
	}
	if changed {
		s.logger.Info("period document reloaded", slog.String("path", s.path))
	}
}
