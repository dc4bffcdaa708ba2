package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler processes one dropped-in video file.
type Handler func(ctx context.Context, path string) error

// Watcher monitors an inbox directory and feeds new video files through
// the handler one at a time, in arrival order.
type Watcher struct {
	dir     string
	handler Handler
	log     *slog.Logger
	fs      *fsnotify.Watcher

	// settleDelay gives the writer time to finish before the file is
	// opened. Downloads and copies rarely complete within the create
	// event.
	settleDelay time.Duration
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".avi":  {},
	".mkv":  {},
	".webm": {},
	".m4v":  {},
}

func New(dir string, handler Handler, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:         dir,
		handler:     handler,
		log:         log,
		fs:          fs,
		settleDelay: 500 * time.Millisecond,
	}, nil
}

// Start blocks, processing files until the context is canceled. Handling
// is strictly sequential: one file's full pipeline finishes, success or
// failure, before the next begins.
func (w *Watcher) Start(ctx context.Context) error {
	w.log.Info("watching inbox", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !IsVideoFile(event.Name) {
				w.log.Debug("ignoring non-video file", "path", event.Name)
				continue
			}
			w.log.Info("new video detected", "path", event.Name)
			select {
			case <-time.After(w.settleDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			if err := w.handler(ctx, event.Name); err != nil {
				w.log.Error("processing failed", "path", event.Name, "error", err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// IsVideoFile reports whether path has a supported video extension.
func IsVideoFile(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
