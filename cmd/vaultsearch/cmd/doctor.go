package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/vaultsearch/internal/output"
	"github.com/Aman-CERP/vaultsearch/internal/preflight"
)

// errDoctorFailed is returned when a required check fails.
var errDoctorFailed = errors.New("vault check failed")

func newDoctorCmd() *cobra.Command {
	var (
		vault      string
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that a vault can be searched",
		Long: `Run diagnostics for a vault.

Checks:
  - Vault directory exists and is readable
  - Configuration files parse and validate
  - Number of files a search would read
  - Ignore files at the vault root
  - Log directory is writable
  - File descriptor limit

Exits with an error when a required check fails.`,
		Example: `  vaultsearch doctor
  vaultsearch doctor --vault ~/Notes --verbose
  vaultsearch doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDoctor(ctx, cmd, vault, verbose, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&vault, "vault", "v", "", "Vault directory (default: nearest vault above the current directory)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed diagnostic info")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runDoctor(ctx context.Context, cmd *cobra.Command, vaultFlag string, verbose, jsonOutput bool) error {
	vault, err := resolveVault(vaultFlag)
	if err != nil {
		return err
	}

	rep := preflight.New().RunAll(ctx, vault)

	if jsonOutput {
		if err := output.New(cmd.OutOrStdout()).JSON(rep); err != nil {
			return err
		}
	} else {
		rep.WriteText(output.New(cmd.OutOrStdout()), verbose)
	}

	if rep.Failed() {
		return errDoctorFailed
	}
	return nil
}
