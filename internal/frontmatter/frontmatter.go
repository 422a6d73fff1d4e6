// Package frontmatter splits YAML frontmatter from Markdown notes.
//
// The search engine only needs two things from a note: the body text to
// search and the title to rank against. Service captures that contract so
// callers can plug in their own parser.
package frontmatter

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Service extracts the searchable body and the declared title of a note.
type Service interface {
	// ExtractBody returns raw without its leading frontmatter block.
	ExtractBody(raw string) string
	// ExtractTitle returns the frontmatter "title" value, if declared.
	ExtractTitle(raw string) (string, bool)
}

// blockRe matches a frontmatter block at the very start of a note. Both
// fences must be whole lines; the content group is absent for an empty block.
var blockRe = regexp.MustCompile(`\A\x{FEFF}?---[ \t]*\r?\n(?:((?s:.*?))\r?\n)??---[ \t]*(?:\r?\n|\z)`)

// YAML is the default Service. The zero value is ready to use.
type YAML struct{}

var _ Service = YAML{}

// Split returns the frontmatter text (without delimiters) and the body.
// Notes without frontmatter return "" and raw unchanged.
func Split(raw string) (string, string) {
	loc := blockRe.FindStringSubmatchIndex(raw)
	if loc == nil {
		return "", raw
	}
	if loc[2] < 0 {
		return "", raw[loc[1]:]
	}
	return raw[loc[2]:loc[3]], raw[loc[1]:]
}

// ExtractBody implements Service.
func (YAML) ExtractBody(raw string) string {
	_, body := Split(raw)
	return body
}

// ExtractTitle implements Service. Malformed YAML and non-scalar titles are
// treated as absent.
func (YAML) ExtractTitle(raw string) (string, bool) {
	fm, _ := Split(raw)
	if strings.TrimSpace(fm) == "" {
		return "", false
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(fm), &doc); err != nil {
		return "", false
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return "", false
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, val := mapping.Content[i], mapping.Content[i+1]
		if !strings.EqualFold(key.Value, "title") || val.Kind != yaml.ScalarNode {
			continue
		}
		title := strings.TrimSpace(val.Value)
		if title == "" {
			return "", false
		}
		return title, true
	}
	return "", false
}
