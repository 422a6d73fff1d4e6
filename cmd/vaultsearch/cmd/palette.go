package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/vaultsearch/internal/ui"
)

func newPaletteCmd() *cobra.Command {
	var (
		opts   queryFlags
		titles bool
	)

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Interactive type-ahead search",
		Long: `Open an interactive search palette in the terminal.

Results update as you type; a slow search never overwrites the results of
a newer one. Tab switches between content and title search, enter prints
the selected path and exits.`,
		Example: `  vaultsearch palette
  $EDITOR "$(vaultsearch palette --titles)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !ui.IsTTY(cmd.OutOrStdout()) && !ui.IsTTY(cmd.ErrOrStderr()) {
				return errors.New("palette needs an interactive terminal")
			}

			vault, cfg, engine, _, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			vault, err = checkVaultDir(vault)
			if err != nil {
				return err
			}

			mode := ui.ModeContent
			if titles {
				mode = ui.ModeTitles
			}

			// The UI draws on stderr so the chosen path can be piped from stdout.
			selected, err := ui.RunPalette(cmd.Context(), ui.PaletteConfig{
				Searcher: engine,
				Vault:    vault,
				Options:  opts.apply(cmd.Flags(), cfg.QueryOptions()),
				Mode:     mode,
				Styles:   ui.StylesFor(cmd.ErrOrStderr(), opts.noColor),
				Input:    cmd.InOrStdin(),
				Output:   cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			if selected != "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), selected)
			}
			return err
		},
	}

	opts.register(cmd.Flags(), false)
	cmd.Flags().BoolVar(&titles, "titles", false, "Start in title search mode")

	return cmd
}
