package search

import (
	"strings"
)

// Content search scores. They rank a file by how its title or path relates
// to the query; where the content matched does not matter.
const (
	contentScoreRegexHit  = 250
	contentScoreExact     = 400
	contentScorePrefix    = 300
	contentScoreSubstring = 200
	contentScoreFuzzy     = 120
	contentScoreBase      = 100
)

// Title search scores. A zero score excludes the file.
const (
	titleScoreExact     = 400
	titleScorePrefix    = 300
	titleScoreSubstring = 220
	titleScoreFuzzy     = 150
)

// relevance is the tier a query reaches against a title or path.
type relevance int

const (
	relevanceNone relevance = iota
	relevanceFuzzy
	relevanceSubstring
	relevancePrefix
	relevanceExact
)

// scoreContent ranks a file that already matched on content.
func scoreContent(m *matcher, title, relPath string) int {
	if m.regex {
		if m.Probe(title) || m.Probe(relPath) {
			return contentScoreRegexHit
		}
		return contentScoreBase
	}

	switch bestRelevance(m.query, m.caseSensitive, title, relPath) {
	case relevanceExact:
		return contentScoreExact
	case relevancePrefix:
		return contentScorePrefix
	case relevanceSubstring:
		return contentScoreSubstring
	case relevanceFuzzy:
		return contentScoreFuzzy
	default:
		return contentScoreBase
	}
}

// scoreTitle ranks a file for title search. Content is never consulted.
func scoreTitle(query string, caseSensitive bool, title, relPath string) int {
	switch bestRelevance(query, caseSensitive, title, relPath) {
	case relevanceExact:
		return titleScoreExact
	case relevancePrefix:
		return titleScorePrefix
	case relevanceSubstring:
		return titleScoreSubstring
	case relevanceFuzzy:
		return titleScoreFuzzy
	default:
		return 0
	}
}

// bestRelevance returns the highest tier the query reaches against any of
// the targets.
func bestRelevance(query string, caseSensitive bool, targets ...string) relevance {
	if !caseSensitive {
		query = strings.ToLower(query)
	}

	best := relevanceNone
	for _, target := range targets {
		if !caseSensitive {
			target = strings.ToLower(target)
		}
		if r := relevanceOf(query, target); r > best {
			best = r
		}
	}
	return best
}

func relevanceOf(query, target string) relevance {
	switch {
	case target == query:
		return relevanceExact
	case strings.HasPrefix(target, query):
		return relevancePrefix
	case strings.Contains(target, query):
		return relevanceSubstring
	case isSubsequence(query, target):
		return relevanceFuzzy
	default:
		return relevanceNone
	}
}

// isSubsequence reports whether every rune of query appears in target in
// order, not necessarily contiguously.
func isSubsequence(query, target string) bool {
	q := []rune(query)
	if len(q) == 0 {
		return false
	}
	i := 0
	for _, r := range target {
		if r == q[i] {
			i++
			if i == len(q) {
				return true
			}
		}
	}
	return false
}
