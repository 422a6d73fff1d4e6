package search

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	vserrors "github.com/Aman-CERP/vaultsearch/internal/errors"
	"github.com/Aman-CERP/vaultsearch/internal/frontmatter"
	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
	"github.com/Aman-CERP/vaultsearch/internal/scanner"
)

// Engine runs content and title searches against a vault on disk.
// It holds configuration only, so one Engine may serve concurrent calls.
type Engine struct {
	frontmatter frontmatter.Service
	logger      *slog.Logger
	workers     int
	now         func() time.Time
}

// EngineOption configures the search engine.
type EngineOption func(*Engine)

// WithFrontmatter sets the service used to strip frontmatter from Markdown
// notes and read their declared titles.
func WithFrontmatter(svc frontmatter.Service) EngineOption {
	return func(e *Engine) {
		if svc != nil {
			e.frontmatter = svc
		}
	}
}

// WithLogger sets the logger for search events and skipped files.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWorkers bounds how many files are read concurrently (0 = NumCPU).
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine creates a search engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		frontmatter: frontmatter.YAML{},
		logger:      slog.Default(),
		workers:     runtime.NumCPU(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SearchContent finds files whose content contains query. Open buffers
// replace the disk copy of the same path, and a path is reported at most
// once. Results are ordered by score, then newest first, then buffers before
// disk, then path, and truncated to the limit.
//
// An empty query returns no results. A missing vault or an invalid regular
// expression fails the call; unreadable, oversized and binary files are
// skipped.
func (e *Engine) SearchContent(vaultPath, query string, opts QueryOptions, buffers []OpenBuffer) ([]ContentMatch, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return []ContentMatch{}, nil
	}
	opts = opts.normalized()

	root, err := resolveVault(vaultPath)
	if err != nil {
		return nil, err
	}
	m, err := compileMatcher(query, opts)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("search_started",
		slog.String("mode", "content"),
		slog.String("vault", root),
		slog.String("query", query),
		slog.Bool("regex", opts.Regex))

	filter := scanner.NewPathFilter(opts.FileTypes, opts.IncludeGlobs, opts.ExcludeGlobs)
	buffered, skip := dedupeBuffers(buffers)

	var candidates []scoredContent
	for _, b := range buffered {
		if !filter.Allows(b.RelativePath) {
			continue
		}
		if sc, ok := e.matchBuffer(m, b); ok {
			candidates = append(candidates, sc)
		}
	}

	files, err := e.walk(root, opts, filter)
	if err != nil {
		return nil, err
	}

	disk := make([]*scanner.FileInfo, 0, len(files))
	for _, f := range files {
		if _, ok := skip[f.Path]; !ok {
			disk = append(disk, f)
		}
	}

	slots := make([]*scoredContent, len(disk))
	e.forEach(len(disk), func(i int) {
		slots[i] = e.matchDisk(m, disk[i])
	})
	for _, sc := range slots {
		if sc != nil {
			candidates = append(candidates, *sc)
		}
	}

	sortContent(candidates)
	if len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}

	results := make([]ContentMatch, len(candidates))
	for i, sc := range candidates {
		results[i] = sc.match
	}

	e.logger.Debug("search_complete",
		slog.String("mode", "content"),
		slog.Int("candidates", len(disk)+len(buffered)),
		slog.Int("results", len(results)),
		slog.Duration("duration", time.Since(start)))

	return results, nil
}

// SearchTitles ranks files by how their title or path relates to query.
// It never looks at content and never takes regex mode: a file whose title
// and path have no relation to the query is not returned, even if its
// content would match. Results are ordered by score, then newest first,
// then path, and truncated to the limit.
func (e *Engine) SearchTitles(vaultPath, query string, opts QueryOptions) ([]TitleMatch, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return []TitleMatch{}, nil
	}
	opts = opts.normalized()
	opts.Regex = false

	root, err := resolveVault(vaultPath)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("search_started",
		slog.String("mode", "titles"),
		slog.String("vault", root),
		slog.String("query", query))

	filter := scanner.NewPathFilter(opts.FileTypes, opts.IncludeGlobs, opts.ExcludeGlobs)
	files, err := e.walk(root, opts, filter)
	if err != nil {
		return nil, err
	}

	slots := make([]*TitleMatch, len(files))
	e.forEach(len(files), func(i int) {
		slots[i] = e.matchTitle(query, opts.CaseSensitive, files[i])
	})

	results := make([]TitleMatch, 0, len(files))
	for _, tm := range slots {
		if tm != nil {
			results = append(results, *tm)
		}
	}

	sortTitles(results)
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	e.logger.Debug("search_complete",
		slog.String("mode", "titles"),
		slog.Int("candidates", len(files)),
		slog.Int("results", len(results)),
		slog.Duration("duration", time.Since(start)))

	return results, nil
}

// ListFiles returns the vault files a search with opts would consider,
// in walk order.
func (e *Engine) ListFiles(vaultPath string, opts QueryOptions) ([]string, error) {
	root, err := resolveVault(vaultPath)
	if err != nil {
		return nil, err
	}
	filter := scanner.NewPathFilter(opts.FileTypes, opts.IncludeGlobs, opts.ExcludeGlobs)
	files, err := e.walk(root, opts, filter)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, nil
}

// matchBuffer searches one open buffer.
func (e *Engine) matchBuffer(m *matcher, b OpenBuffer) (scoredContent, bool) {
	text, title := e.prepare(b.RelativePath, b.Content)
	if b.Title != nil {
		title = *b.Title
	}

	offset, length, ok := m.Find(text)
	if !ok {
		return scoredContent{}, false
	}

	mtime := e.now().UnixMilli()
	if b.MtimeMs != nil {
		mtime = *b.MtimeMs
	}

	snip := buildSnippet(text, offset, length)
	return scoredContent{
		match: ContentMatch{
			RelativePath: b.RelativePath,
			Title:        title,
			Snippet:      snip.Text,
			MtimeMs:      mtime,
			Source:       SourceBuffer,
			Line:         snip.Line,
			Column:       snip.Column,
		},
		score: scoreContent(m, title, b.RelativePath),
	}, true
}

// matchDisk reads and searches one file. Unusable files yield nil.
func (e *Engine) matchDisk(m *matcher, f *scanner.FileInfo) *scoredContent {
	file, err := scanner.ReadFile(f.AbsPath)
	if err != nil {
		e.logSkip(f.Path, err)
		return nil
	}

	text, title := e.prepare(f.Path, string(file.Data))
	offset, length, ok := m.Find(text)
	if !ok {
		return nil
	}

	snip := buildSnippet(text, offset, length)
	return &scoredContent{
		match: ContentMatch{
			RelativePath: f.Path,
			Title:        title,
			Snippet:      snip.Text,
			MtimeMs:      file.ModTime.UnixMilli(),
			Source:       SourceDisk,
			Line:         snip.Line,
			Column:       snip.Column,
		},
		score: scoreContent(m, title, f.Path),
	}
}

// matchTitle reads one file for its title and stat data and scores it.
// Zero-score and unusable files yield nil.
func (e *Engine) matchTitle(query string, caseSensitive bool, f *scanner.FileInfo) *TitleMatch {
	file, err := scanner.ReadFile(f.AbsPath)
	if err != nil {
		e.logSkip(f.Path, err)
		return nil
	}

	title := e.deriveTitle(f.Path, string(file.Data))
	score := scoreTitle(query, caseSensitive, title, f.Path)
	if score == 0 {
		return nil
	}

	return &TitleMatch{
		RelativePath: f.Path,
		Title:        title,
		MtimeMs:      file.ModTime.UnixMilli(),
		Size:         file.Size,
		Score:        score,
	}
}

// prepare returns the text to search and the derived title. Markdown is
// searched without its frontmatter, so reported lines and columns are
// relative to the body. Other files are searched as-is.
func (e *Engine) prepare(relPath, raw string) (string, string) {
	title := e.deriveTitle(relPath, raw)
	if !pathutil.IsMarkdown(relPath) {
		return raw, title
	}
	return e.frontmatter.ExtractBody(raw), title
}

// deriveTitle prefers a Markdown note's frontmatter title and falls back to
// the file name without extension.
func (e *Engine) deriveTitle(relPath, raw string) string {
	if pathutil.IsMarkdown(relPath) {
		if title, ok := e.frontmatter.ExtractTitle(raw); ok {
			return title
		}
	}
	return pathutil.Stem(relPath)
}

// walk lists candidate files under root.
func (e *Engine) walk(root string, opts QueryOptions, filter *scanner.PathFilter) ([]*scanner.FileInfo, error) {
	s := scanner.New(scanner.WithLogger(e.logger))
	files, err := s.Collect(context.Background(), &scanner.ScanOptions{
		RootDir:        root,
		IncludeIgnored: opts.IncludeIgnored,
		Filter:         filter,
	})
	if err != nil {
		return nil, vserrors.New(vserrors.ErrCodeSearchFailed, "failed to walk vault", err).
			WithDetail("vault", root)
	}
	return files, nil
}

// forEach runs fn for 0..n-1 on at most e.workers goroutines. fn writes to
// its own slot, so result order never depends on completion order.
func (e *Engine) forEach(n int, fn func(i int)) {
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) logSkip(relPath string, err error) {
	reason := "unreadable"
	switch {
	case errors.Is(err, scanner.ErrBinary):
		reason = "binary"
	case errors.Is(err, scanner.ErrTooLarge):
		reason = "too_large"
	case errors.Is(err, scanner.ErrNotRegular):
		reason = "not_regular"
	}
	e.logger.Debug("file_skipped",
		slog.String("path", relPath),
		slog.String("reason", reason),
		slog.String("error", err.Error()))
}

// resolveVault makes vaultPath absolute and checks it is a directory.
func resolveVault(vaultPath string) (string, error) {
	if strings.TrimSpace(vaultPath) == "" {
		return "", vserrors.VaultNotFound(vaultPath, nil)
	}
	abs, err := filepath.Abs(vaultPath)
	if err != nil {
		return "", vserrors.VaultNotFound(vaultPath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", vserrors.VaultNotFound(abs, err)
	}
	if !info.IsDir() {
		return "", vserrors.VaultNotDirectory(abs)
	}
	return abs, nil
}

// sortContent orders by score desc, mtime desc, buffer before disk, path asc.
func sortContent(c []scoredContent) {
	sort.Slice(c, func(i, j int) bool {
		a, b := c[i], c[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.match.MtimeMs != b.match.MtimeMs {
			return a.match.MtimeMs > b.match.MtimeMs
		}
		if a.match.Source != b.match.Source {
			return a.match.Source == SourceBuffer
		}
		return a.match.RelativePath < b.match.RelativePath
	})
}

// sortTitles orders by score desc, mtime desc, path asc.
func sortTitles(t []TitleMatch) {
	sort.Slice(t, func(i, j int) bool {
		a, b := t[i], t[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.MtimeMs != b.MtimeMs {
			return a.MtimeMs > b.MtimeMs
		}
		return a.RelativePath < b.RelativePath
	})
}
