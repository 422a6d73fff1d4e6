package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
	"github.com/Aman-CERP/vaultsearch/internal/scanner"
	"github.com/Aman-CERP/vaultsearch/internal/watcher"
)

// MaxResourceSize is the maximum file size for resources (1MB).
const MaxResourceSize = 1024 * 1024

// MaxResources caps how many vault files are registered as resources.
const MaxResources = 10000

// MetricsURI is the resource holding the server's query statistics.
const MetricsURI = "vaultsearch://metrics"

// RegisterResources walks the vault with the configured filters and
// registers each file as an MCP resource. It returns the number registered.
func (s *Server) RegisterResources(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listResourceFiles()
	if err != nil {
		return 0, err
	}
	for _, f := range files {
		s.registerFileResource(f)
	}

	s.logger.Info("resources_registered", "count", len(files))
	return len(files), nil
}

// SyncResources re-lists the vault, registering new files and removing
// resources whose files are gone or now filtered out.
func (s *Server) SyncResources(ctx context.Context) (added, removed int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listResourceFiles()
	if err != nil {
		return 0, 0, err
	}

	current := make(map[string]struct{}, len(files))
	for _, f := range files {
		current[f] = struct{}{}
		if _, ok := s.resources[f]; !ok {
			s.registerFileResource(f)
			added++
		}
	}

	var gone []string
	for f := range s.resources {
		if _, ok := current[f]; !ok {
			gone = append(gone, resourceURI(f))
			delete(s.resources, f)
		}
	}
	if len(gone) > 0 {
		s.mcp.RemoveResources(gone...)
	}
	removed = len(gone)

	if added > 0 || removed > 0 {
		s.logger.Info("resources_synced",
			"added", added,
			"removed", removed,
			"total", len(s.resources))
	}
	return added, removed, nil
}

// WatchResources keeps file resources in step with the vault until ctx is
// canceled or the server is closed. Call it after RegisterResources.
func (s *Server) WatchResources(ctx context.Context, opts watcher.Options) error {
	ctx, cancel := s.bind(ctx)
	defer cancel()

	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	w, err := watcher.New(s.vault, opts)
	if err != nil {
		return fmt.Errorf("failed to watch vault: %w", err)
	}
	defer func() { _ = w.Close() }()

	s.logger.Info("vault_watch_started", "vault", w.Root())
	return w.Run(ctx, func(paths []string) {
		s.logger.Debug("vault_changed", "paths", len(paths))
		if _, _, err := s.SyncResources(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("resource_sync_failed", "error", err.Error())
		}
	})
}

// listResourceFiles lists the vault files to expose, capped at MaxResources.
// Callers hold s.mu.
func (s *Server) listResourceFiles() ([]string, error) {
	files, err := s.engine.ListFiles(s.vault, s.config.QueryOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to list vault files: %w", err)
	}
	if len(files) > MaxResources {
		s.logger.Warn("resource_limit_reached",
			"files", len(files),
			"limit", MaxResources)
		files = files[:MaxResources]
	}
	return files, nil
}

// registerFileResource registers a single vault file as an MCP resource.
func (s *Server) registerFileResource(relPath string) {
	desc := relPath
	if info, err := os.Stat(pathutil.Abs(s.vault, relPath)); err == nil {
		desc = fmt.Sprintf("%s (%s)", relPath, humanSize(info.Size()))
	}

	s.mcp.AddResource(
		&mcp.Resource{
			Name:        path.Base(relPath),
			URI:         resourceURI(relPath),
			Description: desc,
			MIMEType:    MimeTypeForPath(relPath),
		},
		s.makeFileHandler(relPath),
	)
	s.resources[relPath] = struct{}{}
}

// resourceURI returns the resource URI of a vault-relative path.
func resourceURI(relPath string) string {
	return "file://" + relPath
}

// makeFileHandler creates a read handler for a specific file path.
func (s *Server) makeFileHandler(relPath string) mcp.ResourceHandler {
	return func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return s.handleReadResource(ctx, relPath)
	}
}

// handleReadResource reads a vault file with path and content validation.
func (s *Server) handleReadResource(ctx context.Context, relativePath string) (*mcp.ReadResourceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, MapError(err)
	}
	if !isValidPath(relativePath) {
		return nil, NewInvalidParamsError(fmt.Sprintf("invalid path: %s", relativePath))
	}

	rel := pathutil.Normalize(relativePath)
	fullPath := pathutil.Abs(s.vault, rel)

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MCPError{
				Code:    ErrCodeFileNotFound,
				Message: fmt.Sprintf("file not found: %s", rel),
			}
		}
		return nil, MapError(err)
	}
	if info.Size() > MaxResourceSize {
		return nil, &MCPError{
			Code:    ErrCodeFileTooLarge,
			Message: fmt.Sprintf("file too large: %d bytes (max %d)", info.Size(), MaxResourceSize),
		}
	}

	file, err := scanner.ReadFile(fullPath)
	if err != nil {
		return nil, MapError(err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      resourceURI(rel),
				MIMEType: MimeTypeForPath(rel),
				Text:     string(file.Data),
			},
		},
	}, nil
}

// registerMetricsResource exposes the query statistics as JSON.
func (s *Server) registerMetricsResource() {
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        "metrics",
			URI:         MetricsURI,
			Description: "Query statistics since the server started",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			if err := ctx.Err(); err != nil {
				return nil, MapError(err)
			}
			data, err := json.MarshalIndent(s.metrics.Snapshot(), "", "  ")
			if err != nil {
				return nil, MapError(err)
			}
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{
					{URI: MetricsURI, MIMEType: "application/json", Text: string(data)},
				},
			}, nil
		},
	)
}

// isValidPath reports whether path is a vault-relative path that stays
// inside the vault.
func isValidPath(p string) bool {
	if p == "" {
		return false
	}

	slashed := strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(slashed, "/") {
		return false
	}
	// Windows drive letters
	if len(slashed) >= 2 && slashed[1] == ':' {
		return false
	}

	for _, part := range strings.Split(slashed, "/") {
		if part == ".." {
			return false
		}
	}
	return pathutil.Normalize(slashed) != ""
}

// humanSize formats bytes as a human-readable string.
func humanSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
