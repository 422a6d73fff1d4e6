// Package glob compiles "*", "**" and "?" path patterns into matchers over
// vault-relative POSIX paths. The same translation backs both the gitignore
// rule compiler and the include/exclude filters.
package glob

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyPattern is returned when a pattern has no body after normalization.
var ErrEmptyPattern = errors.New("glob: empty pattern")

// anyDirs matches zero or more leading directory segments.
const anyDirs = "(?:.*/)?"

// Pattern is a normalized glob.
type Pattern struct {
	Body     string // pattern text without leading "/" or "./" and trailing "/"
	Anchored bool   // started with "/" or contains an internal "/"
	DirOnly  bool   // had a trailing "/"
}

// Parse normalizes a raw pattern. Leading "./" is stripped, a trailing "/" is
// recorded as DirOnly and removed, and the pattern is anchored when it starts
// with "/" or still contains a "/".
func Parse(raw string) (Pattern, error) {
	body := strings.TrimSpace(raw)
	for strings.HasPrefix(body, "./") {
		body = body[2:]
	}

	var p Pattern
	if strings.HasSuffix(body, "/") {
		p.DirOnly = true
		body = strings.TrimRight(body, "/")
	}
	if strings.HasPrefix(body, "/") {
		p.Anchored = true
		body = strings.TrimLeft(body, "/")
	}
	if strings.Contains(body, "/") {
		p.Anchored = true
	}
	if body == "" {
		return Pattern{}, ErrEmptyPattern
	}

	p.Body = body
	return p, nil
}

// Expr returns the unanchored regular expression for the pattern body.
// Callers wrap it with "^" and "$" (and any scoping prefix).
func (p Pattern) Expr() string {
	if p.Anchored {
		return Translate(p.Body)
	}
	return anyDirs + Translate(p.Body)
}

// Translate converts glob syntax to a regular expression fragment, left to right:
//
//	**/  zero or more directory segments
//	**   any run of characters, including "/"
//	*    any run of characters except "/"
//	?    exactly one character except "/"
//
// Every other character is matched literally.
func Translate(body string) string {
	var sb strings.Builder
	sb.Grow(len(body) * 2)

	for i := 0; i < len(body); {
		switch {
		case strings.HasPrefix(body[i:], "**/"):
			sb.WriteString(anyDirs)
			i += 3
		case strings.HasPrefix(body[i:], "**"):
			sb.WriteString(".*")
			i += 2
		case body[i] == '*':
			sb.WriteString("[^/]*")
			i++
		case body[i] == '?':
			sb.WriteString("[^/]")
			i++
		default:
			// Copy the whole literal run so multi-byte runes stay intact.
			j := i + 1
			for j < len(body) && body[j] != '*' && body[j] != '?' {
				j++
			}
			sb.WriteString(regexp.QuoteMeta(body[i:j]))
			i = j
		}
	}

	return sb.String()
}

// Glob is a compiled stand-alone pattern used for include/exclude filters.
// Unlike ignore rules it has no negation, scoping or inheritance.
type Glob struct {
	Raw string
	re  *regexp.Regexp
}

// Compile compiles raw into a Glob.
func Compile(raw string) (*Glob, error) {
	p, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile("^" + p.Expr() + "$")
	if err != nil {
		return nil, err
	}
	return &Glob{Raw: raw, re: re}, nil
}

// Match reports whether the vault-relative POSIX path matches the glob.
func (g *Glob) Match(relPath string) bool {
	return g.re.MatchString(relPath)
}

// CompileAll compiles each pattern in order, silently dropping empty or
// invalid ones.
func CompileAll(raws []string) []*Glob {
	out := make([]*Glob, 0, len(raws))
	for _, raw := range raws {
		g, err := Compile(raw)
		if err != nil {
			continue
		}
		out = append(out, g)
	}
	return out
}

// MatchAny reports whether any glob matches relPath.
func MatchAny(globs []*Glob, relPath string) bool {
	for _, g := range globs {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}
