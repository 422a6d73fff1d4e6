// Package cmd provides the CLI commands for vaultsearch.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/vaultsearch/internal/config"
	vserrors "github.com/Aman-CERP/vaultsearch/internal/errors"
	"github.com/Aman-CERP/vaultsearch/internal/logging"
	"github.com/Aman-CERP/vaultsearch/internal/profiling"
	"github.com/Aman-CERP/vaultsearch/internal/search"
	"github.com/Aman-CERP/vaultsearch/pkg/version"
)

// Debug logging and profiling flags
var (
	debugMode      bool
	loggingCleanup func()

	profileOpts    profiling.Options
	profileSession *profiling.Session
)

// NewRootCmd creates the root command for the vaultsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaultsearch",
		Short: "Search a notes vault by content or title",
		Long: `vaultsearch searches a Markdown vault (an Obsidian vault or any folder
of notes) without building an index.

Every search walks the vault afresh, honouring .gitignore, .ignore and
.rgignore files, and reports at most one match per note. Open editor
buffers can be passed in to search unsaved text instead of the file on disk.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("vaultsearch version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.vaultsearch/logs/")

	cmd.PersistentFlags().StringVar(&profileOpts.CPU, "profile-cpu", "", "Write a CPU profile to this file")
	cmd.PersistentFlags().StringVar(&profileOpts.Mem, "profile-mem", "", "Write a heap profile to this file on exit")
	cmd.PersistentFlags().StringVar(&profileOpts.Trace, "profile-trace", "", "Write an execution trace to this file")
	_ = cmd.PersistentFlags().MarkHidden("profile-trace")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newTitlesCmd())
	cmd.AddCommand(newFilesCmd())
	cmd.AddCommand(newIgnoreCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPaletteCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging starts any requested profiles, then logging.
func startProfilingAndLogging(cmd *cobra.Command, args []string) error {
	if profileOpts.Enabled() {
		session, err := profiling.Start(profileOpts)
		if err != nil {
			return err
		}
		profileSession = session
	}
	if err := startLogging(cmd, args); err != nil {
		if profileSession != nil {
			_ = profileSession.Stop()
			profileSession = nil
		}
		return err
	}
	return nil
}

// stopProfilingAndLogging writes the profiles and closes the debug log.
func stopProfilingAndLogging(cmd *cobra.Command, args []string) error {
	var profErr error
	if profileSession != nil {
		profErr = profileSession.Stop()
		profileSession = nil
		if profErr == nil {
			slog.Info("profiles_written",
				slog.String("cpu", profileOpts.CPU),
				slog.String("mem", profileOpts.Mem),
				slog.String("trace", profileOpts.Trace))
		}
	}
	if err := stopLogging(cmd, args); err != nil {
		return err
	}
	return profErr
}

// startLogging enables file logging with --debug. Otherwise only warnings
// reach stderr.
func startLogging(cmd *cobra.Command, _ []string) error {
	if !debugMode {
		slog.SetDefault(logging.Quiet(cmd.ErrOrStderr()))
		return nil
	}

	cleanup, err := logging.Install(logging.FileConfig("debug"),
		slog.String("version", version.Version),
		slog.String("command", cmd.CommandPath()))
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	return nil
}

// stopLogging flushes and closes the debug log.
func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := NewRootCmd().Execute()
	// PostRunE is skipped when a command fails.
	if profileSession != nil {
		_ = profileSession.Stop()
		profileSession = nil
	}
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	if err != nil {
		fmt.Fprint(os.Stderr, vserrors.FormatForCLI(err, debugMode))
	}
	return err
}

// resolveVault returns the vault to search: the flag value when set, else
// the nearest vault root above the working directory, else the working
// directory itself.
func resolveVault(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	if root, err := config.FindVaultRoot(cwd); err == nil {
		return root, nil
	}
	return cwd, nil
}

// newEngine builds a search engine configured from cfg.
func newEngine(cfg *config.Config) *search.Engine {
	return search.NewEngine(
		search.WithWorkers(cfg.Search.Workers),
		search.WithLogger(slog.Default()),
	)
}
