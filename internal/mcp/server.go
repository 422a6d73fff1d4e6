package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/vaultsearch/internal/config"
	vserrors "github.com/Aman-CERP/vaultsearch/internal/errors"
	"github.com/Aman-CERP/vaultsearch/internal/search"
	"github.com/Aman-CERP/vaultsearch/internal/telemetry"
	"github.com/Aman-CERP/vaultsearch/pkg/version"
)

// Searcher is the search surface the server needs. *search.Engine implements it.
type Searcher interface {
	SearchContent(vaultPath, query string, opts search.QueryOptions, buffers []search.OpenBuffer) ([]search.ContentMatch, error)
	SearchTitles(vaultPath, query string, opts search.QueryOptions) ([]search.TitleMatch, error)
	ListFiles(vaultPath string, opts search.QueryOptions) ([]string, error)
}

// Server is the MCP server for vaultsearch.
// It exposes content and title search over one vault to AI clients.
type Server struct {
	mcp       *mcp.Server
	engine    Searcher
	config    *config.Config
	vault     string
	logger    *slog.Logger
	metrics   *telemetry.Metrics
	resources map[string]struct{}

	// life is canceled by Close and ends Serve and WatchResources.
	life     context.Context
	stopLife context.CancelFunc

	mu sync.RWMutex
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

var tools = []ToolInfo{
	{
		Name:        ToolSearchContent,
		Description: "Search the text of every note in the vault. Returns at most one match per file with a line, column and snippet. Supports regular expressions, glob and file-type filters, and unsaved editor buffers that replace the file on disk.",
	},
	{
		Name:        ToolSearchTitles,
		Description: "Find notes by title or path. Titles come from frontmatter or the file name. Ranks exact, prefix, substring and fuzzy matches; never looks at note contents.",
	},
}

// NewServer creates a new MCP server searching vault.
func NewServer(engine Searcher, cfg *config.Config, vault string) (*Server, error) {
	if engine == nil {
		return nil, errors.New("search engine is required")
	}
	if vault == "" {
		return nil, errors.New("vault path is required")
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}

	s := &Server{
		engine:    engine,
		config:    cfg,
		vault:     vault,
		logger:    slog.Default(),
		metrics:   telemetry.New(),
		resources: make(map[string]struct{}),
	}
	s.life, s.stopLife = context.WithCancel(context.Background())

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "vaultsearch",
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()
	s.registerMetricsResource()

	return s, nil
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return "vaultsearch", version.Version
}

// Vault returns the vault the server searches.
func (s *Server) Vault() string {
	return s.vault
}

// Metrics returns a snapshot of the queries answered so far.
func (s *Server) Metrics() *telemetry.Snapshot {
	return s.metrics.Snapshot()
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	out := make([]ToolInfo, len(tools))
	copy(out, tools)
	return out
}

// CallTool invokes a tool by name with JSON-style arguments and returns
// markdown-formatted results.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case ToolSearchContent:
		var input SearchContentInput
		if err := decodeArgs(args, &input); err != nil {
			return "", err
		}
		results, err := s.searchContent(ctx, input)
		if err != nil {
			return "", MapError(err)
		}
		return FormatContentResults(strings.TrimSpace(input.Query), results), nil
	case ToolSearchTitles:
		var input SearchTitlesInput
		if err := decodeArgs(args, &input); err != nil {
			return "", err
		}
		results, err := s.searchTitles(ctx, input)
		if err != nil {
			return "", MapError(err)
		}
		return FormatTitleResults(strings.TrimSpace(input.Query), results), nil
	default:
		return "", NewMethodNotFoundError(name)
	}
}

// decodeArgs converts loosely typed arguments into a tool input struct.
func decodeArgs(args map[string]any, dst any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return NewInvalidParamsError(fmt.Sprintf("invalid arguments: %v", err))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return NewInvalidParamsError(fmt.Sprintf("invalid arguments: %v", err))
	}
	return nil
}

// searchContent runs one content search with the configured defaults.
func (s *Server) searchContent(ctx context.Context, input SearchContentInput) ([]search.ContentMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	opts := contentOptions(s.config.QueryOptions(), input)
	s.mu.RUnlock()

	start := time.Now()
	requestID := generateRequestID()
	s.logger.Info("tool_call_started",
		slog.String("request_id", requestID),
		slog.String("tool", ToolSearchContent),
		slog.String("query", input.Query),
		slog.Int("limit", opts.Limit),
		slog.Int("open_buffers", len(input.OpenBuffers)))

	results, err := s.engine.SearchContent(s.vault, input.Query, opts, toOpenBuffers(input.OpenBuffers))
	s.record(telemetry.ModeContent, input.Query, len(results), start, err)
	if err != nil {
		s.logCallFailed(requestID, ToolSearchContent, start, err)
		return nil, err
	}
	if results == nil {
		results = []search.ContentMatch{}
	}

	s.logger.Info("tool_call_complete",
		slog.String("request_id", requestID),
		slog.String("tool", ToolSearchContent),
		slog.Duration("duration", time.Since(start)),
		slog.Int("result_count", len(results)))
	return results, nil
}

// searchTitles runs one title search with the configured defaults.
func (s *Server) searchTitles(ctx context.Context, input SearchTitlesInput) ([]search.TitleMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	opts := titleOptions(s.config.QueryOptions(), input)
	s.mu.RUnlock()

	start := time.Now()
	requestID := generateRequestID()
	s.logger.Info("tool_call_started",
		slog.String("request_id", requestID),
		slog.String("tool", ToolSearchTitles),
		slog.String("query", input.Query),
		slog.Int("limit", opts.Limit))

	results, err := s.engine.SearchTitles(s.vault, input.Query, opts)
	s.record(telemetry.ModeTitles, input.Query, len(results), start, err)
	if err != nil {
		s.logCallFailed(requestID, ToolSearchTitles, start, err)
		return nil, err
	}
	if results == nil {
		results = []search.TitleMatch{}
	}

	s.logger.Info("tool_call_complete",
		slog.String("request_id", requestID),
		slog.String("tool", ToolSearchTitles),
		slog.Duration("duration", time.Since(start)),
		slog.Int("result_count", len(results)))
	return results, nil
}

func (s *Server) record(mode telemetry.Mode, query string, n int, start time.Time, err error) {
	s.metrics.Record(telemetry.QueryEvent{
		Query:       query,
		Mode:        mode,
		ResultCount: n,
		Latency:     time.Since(start),
		Failed:      err != nil,
	})
}

func (s *Server) logCallFailed(requestID, tool string, start time.Time, err error) {
	s.logger.Error("tool_call_failed",
		slog.String("request_id", requestID),
		slog.String("tool", tool),
		slog.Duration("duration", time.Since(start)),
		vserrors.ErrAttr(err))
}

// registerTools registers all tools with the SDK server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        tools[0].Name,
		Description: tools[0].Description,
	}, s.mcpSearchContentHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        tools[1].Name,
		Description: tools[1].Description,
	}, s.mcpSearchTitlesHandler)

	s.logger.Debug("mcp_tools_registered", slog.Int("count", len(tools)))
}

// mcpSearchContentHandler is the MCP SDK handler for the search_content tool.
func (s *Server) mcpSearchContentHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchContentInput) (
	*mcp.CallToolResult,
	SearchContentOutput,
	error,
) {
	results, err := s.searchContent(ctx, input)
	if err != nil {
		return nil, SearchContentOutput{}, MapError(err)
	}
	return textResult(FormatContentResults(strings.TrimSpace(input.Query), results)),
		SearchContentOutput{Results: results}, nil
}

// mcpSearchTitlesHandler is the MCP SDK handler for the search_titles tool.
func (s *Server) mcpSearchTitlesHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchTitlesInput) (
	*mcp.CallToolResult,
	SearchTitlesOutput,
	error,
) {
	results, err := s.searchTitles(ctx, input)
	if err != nil {
		return nil, SearchTitlesOutput{}, MapError(err)
	}
	return textResult(FormatTitleResults(strings.TrimSpace(input.Query), results)),
		SearchTitlesOutput{Results: results}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// Serve starts the server with the specified transport.
func (s *Server) Serve(ctx context.Context, transport string) error {
	ctx, cancel := s.bind(ctx)
	defer cancel()

	s.logger.Info("mcp_server_starting",
		slog.String("transport", transport),
		slog.String("vault", s.vault))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("mcp_server_stopped",
				slog.String("error", err.Error()))
		} else {
			s.logger.Info("mcp_server_stopped")
		}
		s.logMetrics()
		return err
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// Close stops a running Serve and any WatchResources loop. Calls after the
// first are no-ops.
func (s *Server) Close() error {
	s.stopLife()
	return nil
}

// bind derives a context that is also canceled when the server is closed.
func (s *Server) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// logMetrics writes a one-line summary of the session's queries.
func (s *Server) logMetrics() {
	snap := s.metrics.Snapshot()
	s.logger.Info("query_metrics",
		slog.Int64("total", snap.TotalQueries),
		slog.Int64("failed", snap.FailedQueries),
		slog.Int64("content", snap.ModeCounts[telemetry.ModeContent]),
		slog.Int64("titles", snap.ModeCounts[telemetry.ModeTitles]),
		slog.Int64("zero_results", snap.ZeroResultCount),
		slog.Int64("exact_repeats", snap.ExactRepeatCount))
}

// generateRequestID creates a short unique request ID for log correlation.
func generateRequestID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
