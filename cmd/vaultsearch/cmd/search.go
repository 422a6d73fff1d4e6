package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Aman-CERP/vaultsearch/internal/config"
	"github.com/Aman-CERP/vaultsearch/internal/output"
	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
	"github.com/Aman-CERP/vaultsearch/internal/search"
	"github.com/Aman-CERP/vaultsearch/internal/ui"
)

// queryFlags holds the flags shared by search, titles, files and palette.
type queryFlags struct {
	vault          string
	limit          int
	caseSensitive  bool
	includeIgnored bool
	include        []string
	exclude        []string
	fileTypes      []string
	format         string
	noColor        bool
}

// searchOptions holds CLI flags for content search.
type searchOptions struct {
	queryFlags
	regex   bool
	buffers []string // path=file pairs
}

func (q *queryFlags) register(fs *pflag.FlagSet, withFormat bool) {
	fs.StringVarP(&q.vault, "vault", "v", "", "Vault directory (default: nearest vault above the current directory)")
	fs.IntVarP(&q.limit, "limit", "n", 0, "Maximum number of results, 1-500 (default from config, 20)")
	fs.BoolVarP(&q.caseSensitive, "case-sensitive", "c", false, "Match case exactly")
	fs.BoolVar(&q.includeIgnored, "include-ignored", false, "Also search files excluded by .gitignore, .ignore and .rgignore")
	fs.StringSliceVarP(&q.include, "include", "i", nil, "Only search paths matching this glob (repeatable)")
	fs.StringSliceVarP(&q.exclude, "exclude", "x", nil, "Skip paths matching this glob (repeatable)")
	fs.StringSliceVarP(&q.fileTypes, "type", "t", nil, "Restrict to a file type or extension, e.g. md, txt, markdown, all (repeatable)")
	fs.BoolVar(&q.noColor, "no-color", false, "Disable colored output")
	if withFormat {
		fs.StringVar(&q.format, "format", "text", "Output format: text, json")
	}
}

// apply layers explicitly set flags over the configured defaults.
func (q *queryFlags) apply(fs *pflag.FlagSet, base search.QueryOptions) search.QueryOptions {
	opts := base
	if fs.Changed("limit") {
		opts.Limit = q.limit
	}
	if fs.Changed("case-sensitive") {
		opts.CaseSensitive = q.caseSensitive
	}
	if fs.Changed("include-ignored") {
		opts.IncludeIgnored = q.includeIgnored
	}
	if fs.Changed("include") {
		opts.IncludeGlobs = q.include
	}
	if fs.Changed("exclude") {
		opts.ExcludeGlobs = q.exclude
	}
	if fs.Changed("type") {
		opts.FileTypes = q.fileTypes
	}
	return opts
}

// setup resolves the vault, loads its configuration and builds the engine
// and output writer for one command run.
func (q *queryFlags) setup(cmd *cobra.Command) (string, *config.Config, *search.Engine, *output.Writer, error) {
	vault, err := resolveVault(q.vault)
	if err != nil {
		return "", nil, nil, nil, err
	}
	cfg, err := config.Load(vault)
	if err != nil {
		return "", nil, nil, nil, err
	}
	out := output.New(cmd.OutOrStdout(), output.WithStyles(ui.StylesFor(cmd.OutOrStdout(), q.noColor)))
	return vault, cfg, newEngine(cfg), out, nil
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search note contents",
		Long: `Search the contents of every note in the vault.

Each file is reported at most once, at its first match, with a line,
column and snippet. Results are ranked by how well the note's title and
path relate to the query, then by modification time.

Open buffers (--buffer path=file) replace the vault file at path with the
content of file for this search, as an editor would with unsaved changes.`,
		Example: `  vaultsearch search "meeting notes"
  vaultsearch search -e 'TODO\(\w+\)' --type md
  vaultsearch search budget --exclude "Archive/**" --limit 5
  vaultsearch search draft --buffer Inbox/today.md=/tmp/unsaved.md
  vaultsearch search ideas --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	opts.register(cmd.Flags(), true)
	cmd.Flags().BoolVarP(&opts.regex, "regex", "e", false, "Treat the query as an RE2 regular expression")
	cmd.Flags().StringArrayVar(&opts.buffers, "buffer", nil, "Open buffer as path=file: search file's content in place of vault path (repeatable)")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	buffers, err := loadBuffers(opts.buffers)
	if err != nil {
		return err
	}

	vault, cfg, engine, out, err := opts.setup(cmd)
	if err != nil {
		return err
	}

	qo := opts.apply(cmd.Flags(), cfg.QueryOptions())
	qo.Regex = opts.regex

	slog.Debug("cli_search",
		slog.String("vault", vault),
		slog.String("query", query),
		slog.Int("buffers", len(buffers)))

	matches, err := engine.SearchContent(vault, query, qo, buffers)
	if err != nil {
		return err
	}
	return out.ContentMatches(matches, format)
}

// loadBuffers reads path=file pairs into open buffers.
func loadBuffers(pairs []string) ([]search.OpenBuffer, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	buffers := make([]search.OpenBuffer, 0, len(pairs))
	for _, pair := range pairs {
		rel, file, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(rel) == "" || strings.TrimSpace(file) == "" {
			return nil, fmt.Errorf("invalid --buffer %q (want path=file)", pair)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read buffer file: %w", err)
		}
		buffers = append(buffers, search.OpenBuffer{
			RelativePath: pathutil.Normalize(rel),
			Content:      string(data),
			IsDirty:      true,
		})
	}
	return buffers, nil
}

func newTitlesCmd() *cobra.Command {
	var opts queryFlags

	cmd := &cobra.Command{
		Use:   "titles <query>",
		Short: "Search note titles and paths",
		Long: `Rank notes by how their title or path relates to the query.

A note's title is its frontmatter title, or its file name without the
extension. Exact matches rank above prefixes, prefixes above substrings,
and substrings above fuzzy (in-order) matches. Content is never searched.`,
		Example: `  vaultsearch titles "project plan"
  vaultsearch titles mtg --type md --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTitles(cmd, strings.Join(args, " "), opts)
		},
	}

	opts.register(cmd.Flags(), true)

	return cmd
}

func runTitles(cmd *cobra.Command, query string, opts queryFlags) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	vault, cfg, engine, out, err := opts.setup(cmd)
	if err != nil {
		return err
	}

	matches, err := engine.SearchTitles(vault, query, opts.apply(cmd.Flags(), cfg.QueryOptions()))
	if err != nil {
		return err
	}
	return out.TitleMatches(matches, format)
}

func newFilesCmd() *cobra.Command {
	var opts queryFlags

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the files a search would consider",
		Long: `List every vault file that survives ignore files, globs and file-type
filters, in walk order. Useful to check why a note is or is not searched.`,
		Example: `  vaultsearch files --type md
  vaultsearch files --include "Projects/**" --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			vault, cfg, engine, out, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			paths, err := engine.ListFiles(vault, opts.apply(cmd.Flags(), cfg.QueryOptions()))
			if err != nil {
				return err
			}
			return out.Paths(paths, format)
		},
	}

	opts.register(cmd.Flags(), true)
	// Limit does not apply to listings.
	_ = cmd.Flags().MarkHidden("limit")

	return cmd
}
