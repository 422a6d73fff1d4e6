package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreCheckCmd(t *testing.T) {
	isolateEnv(t)
	vault := writeVault(t, map[string]string{
		".gitignore":         "*.log\n!keep.log\ndrafts/\n",
		"Journal/.ignore":    "private.md\n",
		"Journal/private.md": "x",
		"Journal/public.md":  "x",
		"drafts/idea.md":     "x",
		"drafts/.gitignore":  "!idea.md\n",
		"keep.log":           "x",
		"debug.log":          "x",
	})

	tests := []struct {
		name        string
		path        string
		wantIgnored bool
		wantRule    string
		wantSource  string
	}{
		{"root rule", "debug.log", true, "*.log", "vault root"},
		{"negation re-includes", "keep.log", false, "!keep.log", "vault root"},
		{"nested ignore file", "Journal/private.md", true, "private.md", "Journal/"},
		{"no rule", "Journal/public.md", false, "", ""},
		{"ignored directory", "drafts", true, "drafts/", "vault root"},
		{"ignored ancestor wins over child negation", "drafts/idea.md", true, "drafts/", "vault root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, "ignore", "check", tt.path, "--vault", vault, "--format", "json")
			require.NoError(t, err)

			var reports []ignoreReport
			require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
			require.Len(t, reports, 1)
			assert.Equal(t, tt.wantIgnored, reports[0].Ignored)
			assert.Equal(t, tt.wantRule, reports[0].Rule)
			assert.Equal(t, tt.wantSource, reports[0].Source)
		})
	}
}

func TestIgnoreCheckCmd_TextOutput(t *testing.T) {
	isolateEnv(t)
	vault := writeVault(t, map[string]string{
		".gitignore": "*.tmp\n",
		"a.tmp":      "x",
		"a.md":       "x",
	})

	stdout, _, err := execute(t, "ignore", "check", "a.tmp", "a.md", "--vault", vault, "--no-color")

	require.NoError(t, err)
	assert.Contains(t, stdout, `a.tmp is ignored by "*.tmp" (vault root)`)
	assert.Contains(t, stdout, "a.md is not ignored")
}

func TestIgnoreCheckCmd_AbsolutePath(t *testing.T) {
	isolateEnv(t)
	vault := writeVault(t, map[string]string{
		".gitignore": "*.tmp\n",
		"x.tmp":      "x",
	})

	stdout, _, err := execute(t, "ignore", "check", filepath.Join(vault, "x.tmp"), "--vault", vault, "--format", "json")

	require.NoError(t, err)
	var reports []ignoreReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "x.tmp", reports[0].Path)
	assert.True(t, reports[0].Ignored)
}

func TestIgnoreCheckCmd_RejectsPathsOutsideVault(t *testing.T) {
	isolateEnv(t)
	vault := writeVault(t, map[string]string{"a.md": "x"})

	tests := []string{
		"../elsewhere.md",
		filepath.Join(t.TempDir(), "other.md"),
	}

	for _, p := range tests {
		t.Run(p, func(t *testing.T) {
			_, _, err := execute(t, "ignore", "check", p, "--vault", vault)
			assert.Error(t, err)
		})
	}
}
