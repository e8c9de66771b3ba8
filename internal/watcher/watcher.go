// Package watcher keeps a hotel's document folder in sync with the index.
// File writes are debounced so an editor saving in several steps triggers a
// single re-index; removals and renames drop the document.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it is re-indexed.
const DefaultDebounce = 400 * time.Millisecond

// Handler receives file events. Paths are absolute.
type Handler interface {
	FileChanged(ctx context.Context, path string)
	FileRemoved(ctx context.Context, path string)
	// TreeRemoved reports a removed or renamed path that was not an accepted
	// file. It may have been a directory; everything under it is gone.
	TreeRemoved(ctx context.Context, path string)
}

// Accept decides whether a file path is of interest.
type Accept func(path string) bool

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithAccept filters the files passed to the handler. Without it every
// regular, non-hidden file is accepted.
func WithAccept(a Accept) Option {
	return func(w *Watcher) { w.accept = a }
}

// Watcher watches one directory tree.
type Watcher struct {
	root     string
	handler  Handler
	accept   Accept
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
	wg      sync.WaitGroup
}

// New creates a watcher for root. The directory is created if missing.
func New(root string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	w := &Watcher{
		root:     abs,
		handler:  handler,
		accept:   func(string) bool { return true },
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		pending:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Root returns the watched directory.
func (w *Watcher) Root() string { return w.root }

// Run watches until ctx is cancelled. Pending debounced events are dropped
// and in-flight handler calls are awaited before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	w.logger.Info("watching directory", zap.String("root", w.root))

	defer w.close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch events overflowed, rescanning", zap.String("root", w.root))
				w.scan(ctx, w.root)
				continue
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, fw *fsnotify.Watcher, ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if hidden(w.root, path) {
		return
	}
	w.logger.Debug("watch event", zap.String("op", ev.Op.String()), zap.String("path", path))

	switch {
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			// files copied in together with the directory produce no events of their own
			if err := w.addTree(fw, path); err != nil {
				w.logger.Warn("failed to watch directory", zap.String("path", path), zap.Error(err))
			}
			w.scan(ctx, path)
			return
		}
		if info.Mode().IsRegular() && w.accept(path) {
			w.schedule(ctx, path)
		}
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		w.cancelTree(path)
		// the path no longer exists, so a directory cannot be told apart from
		// a file of another type
		if w.accept(path) {
			w.dispatch(func() { w.handler.FileRemoved(ctx, path) })
		} else {
			w.dispatch(func() { w.handler.TreeRemoved(ctx, path) })
		}
	}
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && hidden(w.root, path) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

// scan schedules every accepted file under dir.
func (w *Watcher) scan(ctx context.Context, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && hidden(w.root, path) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && !hidden(w.root, path) && w.accept(path) {
			w.schedule(ctx, path)
		}
		return nil
	})
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.dispatch(func() { w.handler.FileChanged(ctx, path) })
	})
}

// dispatch runs fn unless the watcher has stopped.
func (w *Watcher) dispatch(fn func()) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()
	fn()
}

// cancelTree drops pending events for path and for anything below it.
func (w *Watcher) cancelTree(path string) {
	prefix := path + string(filepath.Separator)
	w.mu.Lock()
	defer w.mu.Unlock()
	for p, t := range w.pending {
		if p == path || strings.HasPrefix(p, prefix) {
			t.Stop()
			delete(w.pending, p)
		}
	}
}

func (w *Watcher) close() {
	w.mu.Lock()
	w.closed = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

// hidden reports whether any element of path below root starts with a dot.
func hidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != ".." {
			return true
		}
	}
	return false
}
