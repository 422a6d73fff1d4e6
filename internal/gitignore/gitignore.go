package gitignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Aman-CERP/vaultsearch/internal/glob"
	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
)

// FileNames lists the ignore files read from every directory, in order.
var FileNames = []string{".gitignore", ".ignore", ".rgignore"}

// Rule is a single compiled ignore pattern scoped to the directory that
// declared it.
type Rule struct {
	Pattern string // original pattern text (after comment/blank filtering)
	Dir     string // declaring directory, "" for the vault root
	Negate  bool   // started with !
	DirOnly bool   // ended with /

	regex *regexp.Regexp
}

// Rules is an ordered, immutable list of rules. Parent rules come first,
// followed by each descendant directory's own rules in file and line order.
type Rules []Rule

// Compile compiles one pattern declared in dir. It returns false for blank
// lines, comments and patterns that are empty after normalization.
func Compile(line, dir string) (Rule, bool) {
	pattern := cleanLine(line)
	if pattern == "" {
		return Rule{}, false
	}

	r := Rule{Pattern: pattern, Dir: pathutil.Normalize(dir)}

	// Handle escaped leading # or !
	switch {
	case strings.HasPrefix(pattern, `\#`), strings.HasPrefix(pattern, `\!`):
		pattern = pattern[1:]
	case strings.HasPrefix(pattern, "!"):
		r.Negate = true
		pattern = pattern[1:]
	}

	p, err := glob.Parse(pattern)
	if err != nil {
		return Rule{}, false
	}
	r.DirOnly = p.DirOnly

	scope := ""
	if r.Dir != "" {
		scope = regexp.QuoteMeta(r.Dir) + "/"
	}
	regex, err := regexp.Compile("^" + scope + p.Expr() + "$")
	if err != nil {
		return Rule{}, false
	}
	r.regex = regex
	return r, true
}

// Parse compiles the content of an ignore file found in dir.
// Unusable lines are dropped silently.
func Parse(content, dir string) Rules {
	var rules Rules
	for _, line := range ParsePatterns(content) {
		if r, ok := Compile(line, dir); ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// LoadDir reads every ignore file present in absDir. relDir is the directory's
// vault-relative path and becomes the scope of the returned rules. Missing or
// unreadable files contribute nothing.
func LoadDir(absDir, relDir string) Rules {
	var rules Rules
	for _, name := range FileNames {
		data, err := os.ReadFile(filepath.Join(absDir, name))
		if err != nil {
			continue
		}
		rules = append(rules, Parse(string(data), relDir)...)
	}
	return rules
}

// Extend returns a new list holding rs followed by local. rs is left untouched.
func (rs Rules) Extend(local Rules) Rules {
	if len(local) == 0 {
		return rs
	}
	out := make(Rules, 0, len(rs)+len(local))
	out = append(out, rs...)
	return append(out, local...)
}

// Ignored reports whether path should be ignored. The last matching rule
// decides; a matching negated rule un-ignores the path.
func (rs Rules) Ignored(path string, isDir bool) bool {
	_, ignored := rs.decide(path, isDir)
	return ignored
}

// Explain returns the rule that decided path and whether path is ignored.
// The returned rule is the zero value when no rule matched.
func (rs Rules) Explain(path string, isDir bool) (Rule, bool) {
	idx, ignored := rs.decide(path, isDir)
	if idx < 0 {
		return Rule{}, false
	}
	return rs[idx], ignored
}

func (rs Rules) decide(path string, isDir bool) (int, bool) {
	path = pathutil.Normalize(path)
	last := -1
	ignored := false
	for i := range rs {
		if rs[i].Match(path, isDir) {
			last = i
			ignored = !rs[i].Negate
		}
	}
	return last, ignored
}

// Match reports whether the rule matches path itself or one of its parent
// directories. Directory-only rules match a path itself only when it is a
// directory, but still match files below a matching parent.
func (r Rule) Match(path string, isDir bool) bool {
	if r.regex == nil {
		return false
	}
	if (!r.DirOnly || isDir) && r.regex.MatchString(path) {
		return true
	}

	// Anything under a matched directory is matched too.
	for i := 0; i < len(path); i++ {
		if path[i] == '/' && r.regex.MatchString(path[:i]) {
			return true
		}
	}
	return false
}

// String returns the rule as it would appear in its ignore file.
func (r Rule) String() string {
	if r.Dir == "" {
		return r.Pattern
	}
	return r.Dir + ": " + r.Pattern
}

// ParsePatterns extracts patterns from ignore-file content.
// Returns the non-empty, non-comment lines with surrounding whitespace removed.
func ParsePatterns(content string) []string {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		if p := cleanLine(line); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// cleanLine trims a raw line and blanks out comments.
func cleanLine(line string) string {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	if strings.HasPrefix(line, "#") {
		return ""
	}
	return line
}
