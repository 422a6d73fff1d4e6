package mcp

import "github.com/Aman-CERP/vaultsearch/internal/search"

// Tool names.
const (
	ToolSearchContent = "search_content"
	ToolSearchTitles  = "search_titles"
)

// OpenBufferInput is an unsaved editor buffer sent along with a content search.
type OpenBufferInput struct {
	RelativePath string  `json:"relative_path" jsonschema:"vault-relative path of the buffer"`
	Content      string  `json:"content" jsonschema:"full buffer text, replaces the file on disk for this search"`
	MtimeMs      *int64  `json:"mtime_ms,omitempty" jsonschema:"buffer modification time in epoch milliseconds"`
	IsDirty      bool    `json:"is_dirty,omitempty" jsonschema:"true if the buffer has unsaved edits"`
	Title        *string `json:"title,omitempty" jsonschema:"title override for the buffer"`
}

// SearchContentInput defines the input schema for the search_content tool.
type SearchContentInput struct {
	Query          string            `json:"query" jsonschema:"text or regular expression to find in note contents"`
	Limit          int               `json:"limit,omitempty" jsonschema:"maximum number of results, default 20, max 500"`
	CaseSensitive  *bool             `json:"case_sensitive,omitempty" jsonschema:"match case exactly"`
	Regex          bool              `json:"regex,omitempty" jsonschema:"treat the query as an RE2 regular expression"`
	IncludeIgnored *bool             `json:"include_ignored,omitempty" jsonschema:"also search files excluded by .gitignore, .ignore and .rgignore"`
	Include        []string          `json:"include,omitempty" jsonschema:"only search paths matching one of these globs"`
	Exclude        []string          `json:"exclude,omitempty" jsonschema:"skip paths matching any of these globs"`
	FileTypes      []string          `json:"file_types,omitempty" jsonschema:"restrict to extensions, e.g. md, txt, markdown, all"`
	OpenBuffers    []OpenBufferInput `json:"open_buffers,omitempty" jsonschema:"unsaved buffers that take precedence over the files on disk"`
}

// SearchTitlesInput defines the input schema for the search_titles tool.
type SearchTitlesInput struct {
	Query          string   `json:"query" jsonschema:"text to rank note titles and paths against"`
	Limit          int      `json:"limit,omitempty" jsonschema:"maximum number of results, default 20, max 500"`
	CaseSensitive  *bool    `json:"case_sensitive,omitempty" jsonschema:"match case exactly"`
	IncludeIgnored *bool    `json:"include_ignored,omitempty" jsonschema:"also rank files excluded by ignore files"`
	Include        []string `json:"include,omitempty" jsonschema:"only rank paths matching one of these globs"`
	Exclude        []string `json:"exclude,omitempty" jsonschema:"skip paths matching any of these globs"`
	FileTypes      []string `json:"file_types,omitempty" jsonschema:"restrict to extensions, e.g. md, txt, markdown, all"`
}

// SearchContentOutput defines the output schema for the search_content tool.
type SearchContentOutput struct {
	Results []search.ContentMatch `json:"results" jsonschema:"matches ordered best first, at most one per path"`
}

// SearchTitlesOutput defines the output schema for the search_titles tool.
type SearchTitlesOutput struct {
	Results []search.TitleMatch `json:"results" jsonschema:"files ordered by score, newest first on ties"`
}

// toOpenBuffers converts tool input into engine buffers.
func toOpenBuffers(in []OpenBufferInput) []search.OpenBuffer {
	if len(in) == 0 {
		return nil
	}
	out := make([]search.OpenBuffer, len(in))
	for i, b := range in {
		out[i] = search.OpenBuffer{
			RelativePath: b.RelativePath,
			Content:      b.Content,
			MtimeMs:      b.MtimeMs,
			IsDirty:      b.IsDirty,
			Title:        b.Title,
		}
	}
	return out
}

// contentOptions layers tool input over the configured defaults.
func contentOptions(base search.QueryOptions, in SearchContentInput) search.QueryOptions {
	opts := overlay(base, in.Limit, in.CaseSensitive, in.IncludeIgnored, in.Include, in.Exclude, in.FileTypes)
	opts.Regex = in.Regex
	return opts
}

// titleOptions layers tool input over the configured defaults.
func titleOptions(base search.QueryOptions, in SearchTitlesInput) search.QueryOptions {
	return overlay(base, in.Limit, in.CaseSensitive, in.IncludeIgnored, in.Include, in.Exclude, in.FileTypes)
}

func overlay(base search.QueryOptions, limit int, caseSensitive, includeIgnored *bool, include, exclude, fileTypes []string) search.QueryOptions {
	opts := base
	if limit > 0 {
		opts.Limit = limit
	}
	if caseSensitive != nil {
		opts.CaseSensitive = *caseSensitive
	}
	if includeIgnored != nil {
		opts.IncludeIgnored = *includeIgnored
	}
	if len(include) > 0 {
		opts.IncludeGlobs = include
	}
	if len(exclude) > 0 {
		opts.ExcludeGlobs = exclude
	}
	if len(fileTypes) > 0 {
		opts.FileTypes = fileTypes
	}
	opts.Limit = search.ClampLimit(opts.Limit)
	return opts
}
