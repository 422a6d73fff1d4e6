package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/vaultsearch/internal/gitignore"
	"github.com/Aman-CERP/vaultsearch/internal/output"
	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
	"github.com/Aman-CERP/vaultsearch/internal/ui"
)

func newIgnoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ignore",
		Short: "Inspect ignore-file rules",
	}
	cmd.AddCommand(newIgnoreCheckCmd())
	return cmd
}

// ignoreReport is the JSON form of an ignore check.
type ignoreReport struct {
	Path    string `json:"path"`
	Ignored bool   `json:"ignored"`
	Rule    string `json:"rule,omitempty"`
	Source  string `json:"source,omitempty"`
}

func newIgnoreCheckCmd() *cobra.Command {
	var (
		vaultFlag string
		format    string
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Report whether paths are ignored and by which rule",
		Long: `Report whether each path is excluded by .gitignore, .ignore or .rgignore
files, and which rule decided. The last matching rule wins, so a later
negation (!pattern) can re-include a path. A path inside an ignored
directory stays ignored whatever deeper ignore files say.

Paths are relative to the vault root, or absolute paths inside the vault.`,
		Example: `  vaultsearch ignore check Drafts/idea.md
  vaultsearch ignore check build --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtOut, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			vault, err := resolveVault(vaultFlag)
			if err != nil {
				return err
			}
			vault, err = filepath.Abs(vault)
			if err != nil {
				return err
			}

			reports := make([]ignoreReport, 0, len(args))
			for _, arg := range args {
				r, err := checkIgnored(vault, arg)
				if err != nil {
					return err
				}
				reports = append(reports, r)
			}

			out := output.New(cmd.OutOrStdout(), output.WithStyles(ui.StylesFor(cmd.OutOrStdout(), noColor)))
			if fmtOut == output.FormatJSON {
				return out.JSON(reports)
			}
			for _, r := range reports {
				switch {
				case r.Ignored:
					out.Warning("%s is ignored by %q (%s)", r.Path, r.Rule, r.Source)
				case r.Rule != "":
					out.Success("%s is not ignored: re-included by %q (%s)", r.Path, r.Rule, r.Source)
				default:
					out.Success("%s is not ignored", r.Path)
				}
			}
			return out.Err()
		},
	}

	cmd.Flags().StringVarP(&vaultFlag, "vault", "v", "", "Vault directory (default: nearest vault above the current directory)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

// checkIgnored explains one path given on the command line.
func checkIgnored(vault, arg string) (ignoreReport, error) {
	rel := arg
	if filepath.IsAbs(arg) {
		r, err := pathutil.VaultRelative(vault, arg)
		if err != nil {
			return ignoreReport{}, fmt.Errorf("path %s is not inside the vault: %w", arg, err)
		}
		rel = r
	}
	rel = pathutil.Normalize(rel)
	if rel == "" || rel == ".." || strings.HasPrefix(rel, "../") {
		return ignoreReport{}, fmt.Errorf("path %s is not inside the vault %s", arg, vault)
	}

	isDir := false
	if info, err := os.Stat(pathutil.Abs(vault, rel)); err == nil {
		isDir = info.IsDir()
	}

	rule, ignored := gitignore.ExplainPath(vault, rel, isDir)
	report := ignoreReport{Path: rel, Ignored: ignored}
	if rule.Pattern != "" {
		report.Rule = rule.Pattern
		report.Source = ruleSource(rule)
	}
	return report, nil
}

// ruleSource names the directory whose ignore files declared rule.
func ruleSource(rule gitignore.Rule) string {
	if rule.Dir == "" {
		return "vault root"
	}
	return rule.Dir + "/"
}
