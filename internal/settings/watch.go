package settings

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch calls fn with the area's settings whenever the file changes in a way
// that affects this area. Changes confined to other areas, and writes that
// leave the area as it was, are ignored. Parse failures are logged and
// skipped. Watch blocks until ctx is done.
//
// The containing directory is watched rather than the file itself so that
// atomic replacement by rename keeps being observed.
func (s *Store) Watch(ctx context.Context, fn func(Settings)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	last, err := s.Load()
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("settings unreadable at watch start")
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("settings watcher error")
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			cur, err := s.Load()
			if err != nil {
				log.Warn().Err(err).Str("op", ev.Op.String()).Msg("settings reload failed")
				continue
			}
			if cur.Equal(last) {
				log.Debug().Str("area", s.area).Msg("settings change does not affect area")
				continue
			}
			last = cur
			log.Debug().Str("area", s.area).Int("keywords", len(cur.Keywords)).Bool("filterBody", cur.FilterBody).Msg("settings changed")
			fn(cur)
		}
	}
}
