// Package pathutil normalizes vault-relative paths to a single POSIX form so
// that filtering, ignore matching and de-duplication compare like with like.
package pathutil

import (
	"path"
	"path/filepath"
	"strings"
)

// Normalize converts p to a vault-relative POSIX path: backslashes become
// forward slashes, redundant segments are cleaned, and any leading "/" or
// "./" is removed. The vault root itself normalizes to "".
func Normalize(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	cleaned := path.Clean(replaced)
	cleaned = strings.TrimLeft(cleaned, "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// Join joins a normalized directory and an entry name with "/".
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// VaultRelative returns target relative to vaultDir in POSIX form.
func VaultRelative(vaultDir, target string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(vaultDir), filepath.Clean(target))
	if err != nil {
		return "", err
	}
	return Normalize(filepath.ToSlash(rel)), nil
}

// Abs resolves a normalized relative path against the vault root.
func Abs(vaultDir, rel string) string {
	return filepath.Join(vaultDir, filepath.FromSlash(rel))
}

// Ext returns the lower-cased extension of p including the dot.
func Ext(p string) string {
	return strings.ToLower(path.Ext(p))
}

// Stem returns the base name of p without its extension.
func Stem(p string) string {
	base := path.Base(Normalize(p))
	return strings.TrimSuffix(base, path.Ext(base))
}

// IsMarkdown reports whether p names a Markdown note.
func IsMarkdown(p string) bool {
	switch Ext(p) {
	case ".md", ".markdown", ".mdx":
		return true
	default:
		return false
	}
}
