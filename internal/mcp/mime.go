package mcp

import (
	"path"

	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
)

// mimeTypes maps file extensions found in vaults to MIME types.
var mimeTypes = map[string]string{
	// Notes
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".mdx":      "text/markdown",
	".txt":      "text/plain",
	".org":      "text/x-org",
	".rst":      "text/x-rst",
	".adoc":     "text/asciidoc",

	// Obsidian
	".canvas": "application/json",

	// Data
	".json": "application/json",
	".yaml": "text/x-yaml",
	".yml":  "text/x-yaml",
	".toml": "text/x-toml",
	".csv":  "text/csv",
	".tsv":  "text/tab-separated-values",
	".xml":  "text/xml",

	// Web
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
}

// specialFilenames maps specific filenames to MIME types.
var specialFilenames = map[string]string{
	".gitignore": "text/plain",
	".ignore":    "text/plain",
	".rgignore":  "text/plain",
}

// MimeTypeForPath returns the MIME type for a vault path.
// Special filenames win over the extension; unknown types are "text/plain".
func MimeTypeForPath(p string) string {
	if mime, ok := specialFilenames[path.Base(pathutil.Normalize(p))]; ok {
		return mime
	}
	if mime, ok := mimeTypes[pathutil.Ext(p)]; ok {
		return mime
	}
	return "text/plain"
}
