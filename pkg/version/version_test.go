package version

import (
	"regexp"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_FollowsSemverOrDev(t *testing.T) {
	if Version == "dev" {
		return
	}
	semver := regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	require.True(t, semver.MatchString(Version), "got %s", Version)
}

func TestGet_FillsRuntimeAndDefaults(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.Date)
}

func TestInfo_WithSettings(t *testing.T) {
	rev := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
	}

	tests := []struct {
		name       string
		base       Info
		settings   []debug.BuildSetting
		wantCommit string
		wantDate   string
	}{
		{
			name:       "no settings leaves fields empty",
			wantCommit: "",
			wantDate:   "",
		},
		{
			name:       "vcs stamp fills empty fields",
			settings:   rev,
			wantCommit: "0123456789ab",
			wantDate:   "2026-01-02T03:04:05Z",
		},
		{
			name:       "modified tree is marked dirty",
			settings:   append(rev, debug.BuildSetting{Key: "vcs.modified", Value: "true"}),
			wantCommit: "0123456789ab-dirty",
			wantDate:   "2026-01-02T03:04:05Z",
		},
		{
			name:       "ldflags values win",
			base:       Info{Commit: "abc1234", Date: "yesterday"},
			settings:   rev,
			wantCommit: "abc1234",
			wantDate:   "yesterday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.base.withSettings(tt.settings)

			assert.Equal(t, tt.wantCommit, got.Commit)
			assert.Equal(t, tt.wantDate, got.Date)
		})
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "v1.0.0", Commit: "abc", Date: "today", GoVersion: "go1.25", OS: "linux", Arch: "amd64"}

	assert.Equal(t, "vaultsearch v1.0.0 (commit: abc, built: today, go: go1.25, linux/amd64)", info.String())
}
