package gitignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIgnore(t *testing.T, root, rel, content string) {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))
}

func TestExplainPath(t *testing.T) {
	// Given: a vault with root and nested ignore files
	root := t.TempDir()
	writeIgnore(t, root, "", "*.log\nbuild/\n")
	writeIgnore(t, root, "notes", "!keep.log\ndrafts/\n")
	writeIgnore(t, root, "build", "!important.md\n")

	tests := []struct {
		name    string
		path    string
		isDir   bool
		ignored bool
		pattern string
		dir     string
	}{
		{name: "root rule", path: "debug.log", ignored: true, pattern: "*.log"},
		{name: "nested negation", path: "notes/keep.log", ignored: false, pattern: "!keep.log", dir: "notes"},
		{name: "nested dir rule", path: "notes/drafts/a.md", ignored: true, pattern: "drafts/", dir: "notes"},
		{name: "ignored ancestor wins over child negation", path: "build/important.md", ignored: true, pattern: "build/"},
		{name: "directory itself", path: "build", isDir: true, ignored: true, pattern: "build/"},
		{name: "no rule", path: "notes/plan.md", ignored: false},
		{name: "backslashes normalized", path: `notes\other.log`, ignored: true, pattern: "*.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: explaining the path
			rule, ignored := ExplainPath(root, tt.path, tt.isDir)

			// Then: the deciding rule is reported
			assert.Equal(t, tt.ignored, ignored)
			assert.Equal(t, tt.pattern, rule.Pattern)
			assert.Equal(t, tt.dir, rule.Dir)
		})
	}
}

func TestExplainPath_VaultRoot(t *testing.T) {
	rule, ignored := ExplainPath(t.TempDir(), "", true)

	assert.False(t, ignored)
	assert.Empty(t, rule.Pattern)
}
