package scanner

import (
	"strings"

	"github.com/Aman-CERP/vaultsearch/internal/glob"
	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
)

// fileTypeAliases maps file-type names to the extensions they stand for.
var fileTypeAliases = map[string][]string{
	"markdown": {".md", ".markdown"},
	"md":       {".md"},
	"text":     {".txt"},
	"txt":      {".txt"},
	"yaml":     {".yaml", ".yml"},
	"yml":      {".yaml", ".yml"},
	"canvas":   {".canvas"},
}

// PathFilter decides whether a vault-relative path passes the user's
// file-type, include and exclude settings. It is built once per search and
// is safe for concurrent use.
type PathFilter struct {
	extensions map[string]struct{} // nil means any extension
	include    []*glob.Glob
	exclude    []*glob.Glob
}

// NewPathFilter resolves file-type aliases and compiles the include and
// exclude globs. Empty or invalid globs are dropped.
func NewPathFilter(fileTypes, include, exclude []string) *PathFilter {
	return &PathFilter{
		extensions: ResolveFileTypes(fileTypes),
		include:    glob.CompileAll(include),
		exclude:    glob.CompileAll(exclude),
	}
}

// Allows reports whether relPath passes the extension allowlist, matches an
// include glob (when any are set) and matches no exclude glob.
func (f *PathFilter) Allows(relPath string) bool {
	if f == nil {
		return true
	}
	relPath = pathutil.Normalize(relPath)

	if f.extensions != nil {
		if _, ok := f.extensions[pathutil.Ext(relPath)]; !ok {
			return false
		}
	}
	if len(f.include) > 0 && !glob.MatchAny(f.include, relPath) {
		return false
	}
	return !glob.MatchAny(f.exclude, relPath)
}

// ResolveFileTypes turns file-type names into a set of lower-cased
// extensions. It returns nil (no filter) for an empty list or when any entry
// is "all" or "*".
func ResolveFileTypes(fileTypes []string) map[string]struct{} {
	exts := make(map[string]struct{})
	for _, ft := range fileTypes {
		ft = strings.ToLower(strings.TrimSpace(ft))
		switch {
		case ft == "":
			continue
		case ft == "all" || ft == "*":
			return nil
		case strings.HasPrefix(ft, "."):
			exts[ft] = struct{}{}
		default:
			if aliases, ok := fileTypeAliases[ft]; ok {
				for _, ext := range aliases {
					exts[ext] = struct{}{}
				}
				continue
			}
			exts["."+ft] = struct{}{}
		}
	}
	if len(exts) == 0 {
		return nil
	}
	return exts
}
