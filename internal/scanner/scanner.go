package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/vaultsearch/internal/gitignore"
	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
)

// resultBuffer is the capacity of the channel returned by Scan.
const resultBuffer = 64

// Scanner walks a vault and streams the files a search should consider.
// It keeps no state between scans.
type Scanner struct {
	logger *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for skipped directories.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks opts.RootDir depth-first and streams every regular file that
// is not a symlink, not dot-prefixed, not under .obsidian, not ignored
// (unless IncludeIgnored) and allowed by opts.Filter. Entries are visited in
// lexical order. The channel is closed when the walk is complete.
//
// Only a missing or unreadable root is an error; unreadable subdirectories
// are skipped.
func (s *Scanner) Scan(ctx context.Context, opts *ScanOptions) (<-chan ScanResult, error) {
	if opts == nil {
		opts = &ScanOptions{}
	}

	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = "."
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", absRoot)
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read root directory: %w", err)
	}

	results := make(chan ScanResult, resultBuffer)

	go func() {
		defer close(results)
		w := &walk{
			ctx:     ctx,
			opts:    opts,
			results: results,
			logger:  s.logger,
		}
		if err := w.dir(absRoot, "", entries, nil); err != nil && err != context.Canceled {
			select {
			case results <- ScanResult{Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return results, nil
}

// Collect runs Scan and gathers the discovered files in walk order.
func (s *Scanner) Collect(ctx context.Context, opts *ScanOptions) ([]*FileInfo, error) {
	results, err := s.Scan(ctx, opts)
	if err != nil {
		return nil, err
	}

	var files []*FileInfo
	var walkErr error
	for r := range results {
		if r.Error != nil {
			walkErr = r.Error
			continue
		}
		files = append(files, r.File)
	}
	return files, walkErr
}

// walk holds the per-scan traversal state. Ignore rules are not stored here;
// each directory receives its own immutable list.
type walk struct {
	ctx     context.Context
	opts    *ScanOptions
	results chan<- ScanResult
	logger  *slog.Logger
}

// dir visits one directory whose entries have already been read.
// inherited holds the rules declared by every ancestor directory.
func (w *walk) dir(absDir, relDir string, entries []os.DirEntry, inherited gitignore.Rules) error {
	rules := inherited
	if !w.opts.IncludeIgnored {
		rules = inherited.Extend(gitignore.LoadDir(absDir, relDir))
	}

	for _, entry := range entries {
		if err := w.ctx.Err(); err != nil {
			return err
		}

		name := entry.Name()
		if skipName(name) {
			continue
		}
		// Symlinks are never followed nor yielded.
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}

		absPath := filepath.Join(absDir, name)
		relPath := pathutil.Join(relDir, name)

		if entry.IsDir() {
			if !w.opts.IncludeIgnored && rules.Ignored(relPath, true) {
				continue
			}
			children, err := os.ReadDir(absPath)
			if err != nil {
				w.logger.Debug("directory_skipped",
					slog.String("path", relPath),
					slog.String("error", err.Error()))
				continue
			}
			if err := w.dir(absPath, relPath, children, rules); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}
		if !w.opts.IncludeIgnored && rules.Ignored(relPath, false) {
			continue
		}
		if !w.opts.Filter.Allows(relPath) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		file := &FileInfo{
			Path:    relPath,
			AbsPath: absPath,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		select {
		case w.results <- ScanResult{File: file}:
		case <-w.ctx.Done():
			return w.ctx.Err()
		}
	}
	return nil
}

// skipName reports whether an entry is hidden from search by name alone.
func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || name == obsidianDir
}
