package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// LogDirEnv overrides the log directory.
const LogDirEnv = "VAULTSEARCH_LOG_DIR"

// DefaultLogDir returns the log directory: $VAULTSEARCH_LOG_DIR, else
// ~/.vaultsearch/logs, else a directory under os.TempDir.
func DefaultLogDir() string {
	if dir := os.Getenv(LogDirEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".vaultsearch", "logs")
	}
	return filepath.Join(home, ".vaultsearch", "logs")
}

// DefaultLogPath returns the log file shared by the CLI and the MCP server.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "vaultsearch.log")
}

// FindLogFile resolves the file to view: explicit if given, otherwise the
// default path. It fails when the file does not exist.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	path := DefaultLogPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("no log file found at %s\nRun with --debug or start `vaultsearch serve` to create one", path)
}
