package search

import (
	"regexp"
	"strings"

	vserrors "github.com/Aman-CERP/vaultsearch/internal/errors"
)

// matcher finds the first occurrence of a query in a text. It is compiled
// once per call and shared read-only by every worker.
type matcher struct {
	query         string
	caseSensitive bool
	regex         bool

	// re is set for regex queries and for case-insensitive literals.
	re *regexp.Regexp
}

// compileMatcher builds the matcher for query. An invalid regular expression
// fails the whole call.
func compileMatcher(query string, opts QueryOptions) (*matcher, error) {
	m := &matcher{
		query:         query,
		caseSensitive: opts.CaseSensitive,
		regex:         opts.Regex,
	}

	switch {
	case opts.Regex:
		expr := query
		if !opts.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, vserrors.InvalidQuery(query, err)
		}
		m.re = re
	case !opts.CaseSensitive:
		// Folding through the regexp engine keeps offsets valid in the
		// original text, which lowercasing a copy would not.
		m.re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	}
	return m, nil
}

// Find returns the byte offset and length of the first match in text.
// Zero-width regex matches report a length of 1.
func (m *matcher) Find(text string) (offset, length int, ok bool) {
	if m.re == nil {
		idx := strings.Index(text, m.query)
		if idx < 0 {
			return 0, 0, false
		}
		return idx, len(m.query), true
	}

	loc := m.re.FindStringIndex(text)
	if loc == nil {
		return 0, 0, false
	}
	length = loc[1] - loc[0]
	if length == 0 {
		length = 1
	}
	return loc[0], length, true
}

// Probe reports whether the regex matches s anywhere. It is only meaningful
// in regex mode.
func (m *matcher) Probe(s string) bool {
	return m.regex && m.re.MatchString(s)
}
