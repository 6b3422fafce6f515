// Package watch re-runs a callback when a file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keystate/internal/logging"
)

// DefaultDebounce is the quiet period used when no debounce is configured.
const DefaultDebounce = 100 * time.Millisecond

// Common watcher errors.
var (
	ErrPathNotExist = errors.New("path does not exist")
	ErrIsDirectory  = errors.New("path is a directory")
	ErrClosed       = errors.New("watcher closed")
)

// Watcher watches a single file. Its parent directory is watched so that
// editors which save by renaming a temp file over the original are seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *logging.Logger
	fsw      *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period that must pass after the last event
// before the callback runs. Zero runs the callback on every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching path. Events are delivered once Run is called.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotExist, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	w := &Watcher{
		path:     absPath,
		debounce: DefaultDebounce,
		logger:   logging.Null(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("watch")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run calls fn after each change to the file until ctx is done, then
// closes the watcher. It returns nil on cancellation and ErrClosed if the
// underlying watcher shut down.
func (w *Watcher) Run(ctx context.Context, fn func()) error {
	defer w.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return ErrClosed
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event %s", event.Op)

			if w.debounce == 0 {
				fn()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrClosed
			}
			w.logger.Warn("watch error: %v", err)

		case <-fire:
			fire = nil
			w.logger.Debug("change settled, running")
			fn()
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant reports whether event modified the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
