package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Flags(t *testing.T) {
	// Given: root command
	cmd := NewRootCmd()

	// When: finding serve command
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	// Then: it has the vault, transport and resource flags
	for _, name := range []string{"vault", "transport", "no-resources", "watch"} {
		assert.NotNil(t, serveCmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestServeCmd_MissingVault(t *testing.T) {
	isolateEnv(t)

	_, _, err := execute(t, "serve", "--vault", filepath.Join(t.TempDir(), "missing"))

	assert.Error(t, err)
}

func TestServeCmd_UnknownTransport(t *testing.T) {
	isolateEnv(t)
	vault := writeVault(t, map[string]string{"a.md": "x"})

	// When: serving over a transport that does not exist
	stdout, _, err := execute(t, "serve", "--vault", vault, "--transport", "carrier-pigeon", "--no-resources")

	// Then: it fails without writing to stdout
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
	assert.Empty(t, stdout)
}

func TestPaletteCmd_RequiresTerminal(t *testing.T) {
	isolateEnv(t)
	vault := writeVault(t, map[string]string{"a.md": "x"})

	// When: running the palette without a terminal
	_, _, err := execute(t, "palette", "--vault", vault)

	// Then: it refuses to start
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}
