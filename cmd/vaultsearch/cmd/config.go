package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/vaultsearch/configs"
	"github.com/Aman-CERP/vaultsearch/internal/config"
	"github.com/Aman-CERP/vaultsearch/internal/output"
	"github.com/Aman-CERP/vaultsearch/internal/ui"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage vaultsearch configuration files.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/vaultsearch/config.yaml)
  3. Vault config (.vaultsearch.yaml in the vault root)
  4. Environment variables (VAULTSEARCH_*)
  5. Command-line flags and tool arguments`,
		Example: `  # Create a vault config from the template
  vaultsearch config init

  # Create the user config
  vaultsearch config init --user

  # Show effective configuration (merged from all sources)
  vaultsearch config show`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

// configInitOptions holds CLI flags for config init.
type configInitOptions struct {
	vault string
	user  bool
	force bool
}

func newConfigInitCmd() *cobra.Command {
	var opts configInitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Create a configuration file from a commented template.

Without --user the file is .vaultsearch.yaml in the vault root. With --user
it is ~/.config/vaultsearch/config.yaml (or under $XDG_CONFIG_HOME).

An existing file is left alone unless --force is given, in which case it is
backed up first. The three most recent backups are kept.`,
		Example: `  vaultsearch config init
  vaultsearch config init --user
  vaultsearch config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.vault, "vault", "v", "", "Vault directory (default: nearest vault above the current directory)")
	cmd.Flags().BoolVar(&opts.user, "user", false, "Create the user configuration instead of the vault one")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing file after backing it up")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		vault      string
		jsonOutput bool
		source     string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the configuration after merging all sources, or a single source
with --source.`,
		Example: `  vaultsearch config show
  vaultsearch config show --json
  vaultsearch config show --source vault`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, vault, jsonOutput, source)
		},
	}

	cmd.Flags().StringVarP(&vault, "vault", "v", "", "Vault directory (default: nearest vault above the current directory)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, vault, defaults")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	var (
		vault string
		user  bool
	)

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print config file paths",
		Long: `Print the user and vault configuration file paths.

The vault path is the existing config file, or where 'config init' would
create one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
				return err
			}
			root, err := resolveVault(vault)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("vault") {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), vaultConfigTarget(root))
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "user:  %s\nvault: %s\n",
				config.GetUserConfigPath(), vaultConfigTarget(root))
			return err
		},
	}

	cmd.Flags().StringVarP(&vault, "vault", "v", "", "Print only the config path of this vault")
	cmd.Flags().BoolVar(&user, "user", false, "Print only the user config path")

	return cmd
}

// vaultConfigTarget returns the vault's config file, or the default name
// when it has none yet.
func vaultConfigTarget(vault string) string {
	if p := config.VaultConfigPath(vault); p != "" {
		return p
	}
	return filepath.Join(vault, config.VaultConfigNames[0])
}

func runConfigInit(cmd *cobra.Command, opts configInitOptions) error {
	out := output.New(cmd.OutOrStdout(), output.WithStyles(ui.StylesFor(cmd.OutOrStdout(), false)))

	var (
		path     string
		template string
	)
	if opts.user {
		path = config.GetUserConfigPath()
		template = configs.UserConfigTemplate
	} else {
		vault, err := resolveVault(opts.vault)
		if err != nil {
			return err
		}
		if vault, err = checkVaultDir(vault); err != nil {
			return err
		}
		path = vaultConfigTarget(vault)
		template = configs.VaultConfigTemplate
	}

	if _, err := os.Stat(path); err == nil {
		if !opts.force {
			out.Warning("Configuration already exists")
			out.Line(output.IconPath, "Location: %s", path)
			out.Blank()
			out.Line(output.IconHint, "Use --force to replace it with the template (a backup is kept)")
			return nil
		}

		backupPath, err := config.Backup(path)
		if err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
		out.Line(output.IconBackup, "Backup: %s", backupPath)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out.Success("Created configuration")
	out.Line(output.IconPath, "Location: %s", path)
	out.Blank()
	out.Line(output.IconList, "Next steps:")
	out.Line("", "  1. Uncomment and edit the settings you want to change")
	out.Line("", "  2. Run 'vaultsearch config show' to verify")

	return out.Err()
}

func runConfigShow(cmd *cobra.Command, vaultFlag string, jsonOutput bool, source string) error {
	out := output.New(cmd.OutOrStdout(), output.WithStyles(ui.StylesFor(cmd.OutOrStdout(), false)))

	vault, err := resolveVault(vaultFlag)
	if err != nil {
		return err
	}

	var (
		cfg        *config.Config
		sourceDesc string
	)

	switch source {
	case "merged":
		cfg, err = config.Load(vault)
		if err != nil {
			return err
		}
		sourceDesc = "merged (defaults + user + vault + env)"

	case "user":
		path := config.GetUserConfigPath()
		if !config.UserConfigExists() {
			out.Warning("No user configuration file found")
			out.Line(output.IconPath, "Expected at: %s", path)
			out.Line(output.IconHint, "Run 'vaultsearch config init --user' to create one")
			return nil
		}
		if cfg, err = config.LoadFile(path); err != nil {
			return err
		}
		sourceDesc = fmt.Sprintf("user (%s)", path)

	case "vault":
		path := config.VaultConfigPath(vault)
		if path == "" {
			out.Warning("No vault configuration file found")
			out.Line(output.IconPath, "Expected at: %s", vaultConfigTarget(vault))
			out.Line(output.IconHint, "Run 'vaultsearch config init' to create one")
			return nil
		}
		if cfg, err = config.LoadFile(path); err != nil {
			return err
		}
		sourceDesc = fmt.Sprintf("vault (%s)", path)

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	default:
		return fmt.Errorf("invalid source: %s (use: merged, user, vault, defaults)", source)
	}

	if jsonOutput {
		return out.JSON(cfg)
	}

	out.Line(output.IconList, "Configuration source: %s", sourceDesc)
	out.Blank()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}
