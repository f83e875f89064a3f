// Package watcher re-triggers rewrites when target files change on disk.
package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

// DefaultDebounce is the quiet period after the last event before targets are reprocessed.
const DefaultDebounce = 300 * time.Millisecond

type Watcher struct {
	debounce time.Duration
	log      *slog.Logger
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

func New(opts ...Option) *Watcher {
	w := &Watcher{
		debounce: DefaultDebounce,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the parent directories of targets (paths relative to root) and
// calls onChange with the targets touched since the last call. Editors that
// save through rename are covered because directories, not files, are watched.
// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context, root string, targets []string, onChange func([]string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return &domain.OpError{Op: "watcher.start", Kind: domain.KindIO, Err: err}
	}
	defer fw.Close()

	byAbs := make(map[string]string, len(targets))
	dirs := map[string]bool{}
	for _, t := range targets {
		abs := filepath.FromSlash(t)
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, abs)
		}
		abs = filepath.Clean(abs)
		byAbs[abs] = t
		dirs[filepath.Dir(abs)] = true
	}

	watched := 0
	for d := range dirs {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			w.log.Warn("watcher.skip_dir", "dir", d)
			continue
		}
		if err := fw.Add(d); err != nil {
			return &domain.OpError{Op: "watcher.add", Kind: domain.KindIO, Path: d, Err: err}
		}
		watched++
	}
	if watched == 0 {
		return &domain.OpError{Op: "watcher.start", Kind: domain.KindNotFound, Path: root, Err: domain.ErrNotFound}
	}
	w.log.Info("watcher.started", "dirs", watched, "targets", len(targets))

	pending := map[string]bool{}
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			t, ok := byAbs[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			pending[t] = true
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher.error", "err", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for t := range pending {
				changed = append(changed, t)
			}
			sort.Strings(changed)
			pending = map[string]bool{}

			w.log.Debug("watcher.changed", "targets", changed)
			onChange(changed)
		}
	}
}
