package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// RotatingWriter is an io.Writer that rotates its file once it would grow
// past maxSize. Rotated files are named path.1 (newest) to path.N.
//
// Several processes may share one log file (one MCP server per client).
// Rotation holds an exclusive lock on path.lock, and a writer whose file was
// already rotated by another process just reopens path.
type RotatingWriter struct {
	path     string
	maxSize  int64
	maxFiles int
	lock     *flock.Flock

	mu            sync.Mutex
	file          *os.File
	written       int64
	immediateSync bool
}

// NewRotatingWriter opens (or creates) path for appending.
// Every write is synced so `vaultsearch logs -f` sees it at once; see
// SetImmediateSync.
func NewRotatingWriter(path string, maxSizeMB, maxFiles int) (*RotatingWriter, error) {
	w := &RotatingWriter{
		path:          path,
		maxSize:       int64(maxSizeMB) * 1024 * 1024,
		maxFiles:      maxFiles,
		lock:          flock.New(path + ".lock"),
		immediateSync: true,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if err := w.openFile(); err != nil {
		return nil, err
	}

	return w, nil
}

// SetImmediateSync toggles the fsync after each write.
func (w *RotatingWriter) SetImmediateSync(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.immediateSync = enabled
}

// Write appends p, rotating first when p would push the file past the
// size limit. A failed rotation is reported on stderr and the write goes to
// whichever file is still open.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.written+int64(len(p)) > w.maxSize {
		if err := w.rotate(int64(len(p))); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}
	if w.file == nil {
		return 0, fmt.Errorf("log file %s is closed", w.path)
	}

	n, err := w.file.Write(p)
	w.written += int64(n)
	if err == nil && w.immediateSync {
		_ = w.file.Sync()
	}
	return n, err
}

// Sync flushes the file to disk.
func (w *RotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close closes the file. Later writes fail; Close itself may be repeated.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeFile()
}

func (w *RotatingWriter) closeFile() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// openFile opens path for appending and picks up its current size.
func (w *RotatingWriter) openFile() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	w.file, w.written = f, info.Size()
	return nil
}

// rotate shifts vaultsearch.log -> .1 -> .2 ... and drops anything at or
// past maxFiles, unless another process rotated first and the fresh file
// has room for incoming bytes. Caller holds mu.
func (w *RotatingWriter) rotate(incoming int64) error {
	if err := w.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock log file: %w", err)
	}
	defer func() { _ = w.lock.Unlock() }()

	if w.rotatedElsewhere() {
		_ = w.closeFile()
		if err := w.openFile(); err != nil {
			return err
		}
		if w.written+incoming <= w.maxSize {
			return nil
		}
	}

	if err := w.closeFile(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	if err := w.shift(); err != nil {
		return err
	}
	return w.openFile()
}

// shift renames path.N to path.N+1, oldest first so nothing is overwritten,
// then path to path.1. Generations at or past maxFiles are removed.
func (w *RotatingWriter) shift() error {
	gens, err := w.generations()
	if err != nil {
		return err
	}
	for _, n := range gens {
		name := w.generation(n)
		if n >= w.maxFiles {
			_ = os.Remove(name)
			continue
		}
		_ = os.Rename(name, w.generation(n+1))
	}

	if _, err := os.Stat(w.path); err == nil {
		if err := os.Rename(w.path, w.generation(1)); err != nil {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	}
	return nil
}

// rotatedElsewhere reports whether path no longer names the open file.
func (w *RotatingWriter) rotatedElsewhere() bool {
	if w.file == nil {
		return false
	}
	open, err := w.file.Stat()
	if err != nil {
		return false
	}
	current, err := os.Stat(w.path)
	if err != nil {
		return true
	}
	return !os.SameFile(open, current)
}

func (w *RotatingWriter) generation(n int) string {
	return w.path + "." + strconv.Itoa(n)
}

// generations returns the N of every existing path.N, highest first.
func (w *RotatingWriter) generations() ([]int, error) {
	matches, err := filepath.Glob(w.path + ".*")
	if err != nil {
		return nil, fmt.Errorf("failed to find rotated files: %w", err)
	}

	var gens []int
	for _, m := range matches {
		if n, err := strconv.Atoi(strings.TrimPrefix(m, w.path+".")); err == nil && n > 0 {
			gens = append(gens, n)
		}
	}
	slices.Sort(gens)
	slices.Reverse(gens)
	return gens, nil
}
