package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Aman-CERP/vaultsearch/internal/gitignore"
	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period before changes are delivered.
	// Default: 300ms
	Debounce time.Duration

	// Logger receives watch errors. Default: slog.Default().
	Logger *slog.Logger
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Watcher follows a vault directory tree.
type Watcher struct {
	fsw    *fsnotify.Watcher
	root   string
	opts   Options
	logger *slog.Logger

	closeOnce sync.Once
}

// New starts following root and every non-hidden directory below it.
func New(root string, opts Options) (*Watcher, error) {
	opts = opts.WithDefaults()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault path: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:    fsw,
		root:   abs,
		opts:   opts,
		logger: opts.Logger,
	}
	if err := w.addTree(abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string {
	return w.root
}

// Run delivers batches of changed vault-relative paths to onChange until
// ctx is canceled or Close is called. onChange runs on its own goroutine,
// one batch at a time.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	var flushMu sync.Mutex
	deb := newDebouncer(w.opts.Debounce, func(paths []string) {
		flushMu.Lock()
		defer flushMu.Unlock()
		onChange(paths)
	})
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if rel, ok := w.handle(ev); ok {
				deb.add(rel)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch_error", slog.String("error", err.Error()))
		}
	}
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
	})
	return err
}

// handle follows new directories and maps the event to a vault path.
// Chmod-only events are dropped.
func (w *Watcher) handle(ev fsnotify.Event) (string, bool) {
	if ev.Op == fsnotify.Chmod {
		return "", false
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = pathutil.Normalize(rel)
	if hiddenPath(rel) && !isIgnoreFile(rel) {
		return "", false
	}

	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn("watch_add_failed",
					slog.String("path", rel),
					slog.String("error", err.Error()))
			}
		}
	}
	return rel, true
}

// addTree watches dir and every non-hidden directory beneath it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// hiddenPath reports whether any segment of rel starts with a dot.
func hiddenPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// isIgnoreFile reports whether rel is an ignore file in a watched
// directory. Ignore rules change what the vault lists.
func isIgnoreFile(rel string) bool {
	dir, name := path.Split(rel)
	if !slices.Contains(gitignore.FileNames, name) {
		return false
	}
	return !hiddenPath(strings.TrimSuffix(dir, "/"))
}
