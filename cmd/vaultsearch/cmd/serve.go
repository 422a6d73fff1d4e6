package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/vaultsearch/internal/config"
	vserrors "github.com/Aman-CERP/vaultsearch/internal/errors"
	"github.com/Aman-CERP/vaultsearch/internal/logging"
	"github.com/Aman-CERP/vaultsearch/internal/mcp"
	"github.com/Aman-CERP/vaultsearch/internal/watcher"
	"github.com/Aman-CERP/vaultsearch/pkg/version"
)

// serveOptions holds CLI flags for serve.
type serveOptions struct {
	vault       string
	transport   string
	noResources bool
	watch       bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long: `Run a Model Context Protocol server for AI clients.

The server exposes the search_content and search_titles tools, and each
vault file as a readable resource. With --watch (or server.watch: true)
resources follow the vault as notes are added or deleted. Stdout carries JSON-RPC only; logs go to
~/.vaultsearch/logs/vaultsearch.log.`,
		Example: `  vaultsearch serve --vault ~/Notes

  # Claude Desktop / Cursor configuration
  {"command": "vaultsearch", "args": ["serve", "--vault", "/Users/me/Notes"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runServe(ctx, cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.vault, "vault", "v", "", "Vault directory (default: nearest vault above the current directory)")
	cmd.Flags().StringVar(&opts.transport, "transport", "", "Transport: stdio (default from config)")
	cmd.Flags().BoolVar(&opts.noResources, "no-resources", false, "Do not expose vault files as MCP resources")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Follow vault changes and update resources (default from config)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts serveOptions) error {
	vault, err := resolveVault(opts.vault)
	if err != nil {
		return err
	}
	vault, err = checkVaultDir(vault)
	if err != nil {
		return err
	}

	cfg, err := config.Load(vault)
	if err != nil {
		return err
	}
	transport := cfg.Server.Transport
	if cmd.Flags().Changed("transport") {
		transport = opts.transport
	}
	watch := cfg.Server.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.watch
	}

	// Nothing but JSON-RPC may reach stdout from here on.
	level := cfg.Server.LogLevel
	if debugMode {
		level = "debug"
	}
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	cleanup, err := logging.Install(logging.FileConfig(level),
		slog.String("version", version.Version),
		slog.String("vault", vault))
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := mcp.NewServer(newEngine(cfg), cfg, vault)
	if err != nil {
		return err
	}
	// Close also ends the watch loop; wait for it before logging shuts down.
	var wg sync.WaitGroup
	defer func() {
		_ = srv.Close()
		wg.Wait()
	}()

	if !opts.noResources {
		if _, err := srv.RegisterResources(ctx); err != nil {
			slog.Warn("resource_registration_failed", slog.String("error", err.Error()))
		} else if watch {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := srv.WatchResources(ctx, watcher.Options{}); err != nil {
					slog.Warn("vault_watch_failed", slog.String("error", err.Error()))
				}
			}()
		}
	}

	err = srv.Serve(ctx, strings.ToLower(transport))
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// checkVaultDir returns the absolute vault path after checking that it is
// an existing directory.
func checkVaultDir(vault string) (string, error) {
	abs, err := filepath.Abs(vault)
	if err != nil {
		return "", vserrors.VaultNotFound(vault, err)
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
