package search

// Limit bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 500
)

// QueryOptions configures a single search call.
type QueryOptions struct {
	// Limit is the maximum number of results (default 20, max 500).
	Limit int

	// IncludeIgnored disables .gitignore, .ignore and .rgignore processing.
	IncludeIgnored bool

	// CaseSensitive disables case folding for matching and scoring.
	CaseSensitive bool

	// Regex treats the query as an RE2 regular expression (content search only).
	Regex bool

	// IncludeGlobs keeps only paths matching at least one glob (empty = all).
	IncludeGlobs []string

	// ExcludeGlobs drops paths matching any glob.
	ExcludeGlobs []string

	// FileTypes restricts extensions, e.g. "md", ".txt", "markdown", "all".
	FileTypes []string
}

// ClampLimit returns limit bounded to 1..MaxLimit, using DefaultLimit for
// zero or negative values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// normalized returns a copy of o with defaults applied.
func (o QueryOptions) normalized() QueryOptions {
	o.Limit = ClampLimit(o.Limit)
	return o
}
