package gitignore

import (
	"strings"

	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
)

// ExplainPath decides relPath the way a vault walk would: ignore files are
// loaded from the vault root down to the path's parent, and an ignored
// ancestor directory decides for everything below it, since the walk never
// descends into it. It returns the deciding rule and whether relPath is
// ignored; the rule is the zero value when nothing matched.
func ExplainPath(vaultRoot, relPath string, isDir bool) (Rule, bool) {
	rel := pathutil.Normalize(relPath)
	rules := LoadDir(vaultRoot, "")
	if rel == "" {
		return Rule{}, false
	}

	parts := strings.Split(rel, "/")
	dir := ""
	for _, part := range parts[:len(parts)-1] {
		dir = pathutil.Join(dir, part)
		if rule, ignored := rules.Explain(dir, true); ignored {
			return rule, true
		}
		rules = rules.Extend(LoadDir(pathutil.Abs(vaultRoot, dir), dir))
	}
	return rules.Explain(rel, isDir)
}
