package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	vserrors "github.com/Aman-CERP/vaultsearch/internal/errors"
	"github.com/Aman-CERP/vaultsearch/internal/logging"
	"github.com/Aman-CERP/vaultsearch/internal/search"
)

// VaultConfigNames are the per-vault config files, in lookup order.
var VaultConfigNames = []string{".vaultsearch.yaml", ".vaultsearch.yml"}

// Config is the complete vaultsearch configuration.
type Config struct {
	Version int          `yaml:"version" json:"version"`
	Search  SearchConfig `yaml:"search" json:"search"`
	Server  ServerConfig `yaml:"server" json:"server"`
}

// SearchConfig holds the defaults applied to every query.
// Per-call flags and tool arguments override these.
type SearchConfig struct {
	Limit          int      `yaml:"limit" json:"limit"`
	FileTypes      []string `yaml:"file_types" json:"file_types"`
	Include        []string `yaml:"include" json:"include"`
	Exclude        []string `yaml:"exclude" json:"exclude"`
	CaseSensitive  bool     `yaml:"case_sensitive" json:"case_sensitive"`
	IncludeIgnored bool     `yaml:"include_ignored" json:"include_ignored"`
	// Workers bounds concurrent file reads (0 = number of CPUs).
	Workers int `yaml:"workers" json:"workers"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
	// Watch keeps file resources in step with the vault while serving.
	// Searches never depend on it; they always re-walk the vault.
	Watch bool `yaml:"watch" json:"watch"`
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchConfig{
			Limit:   search.DefaultLimit,
			Workers: runtime.NumCPU(),
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "info",
		},
	}
}

// GetUserConfigPath returns the user configuration file:
//   - $XDG_CONFIG_HOME/vaultsearch/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/vaultsearch/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vaultsearch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "vaultsearch", "config.yaml")
	}
	return filepath.Join(home, ".config", "vaultsearch", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// VaultConfigPath returns the config file found in vault, or "" if none.
// .yaml wins over .yml.
func VaultConfigPath(vault string) string {
	for _, name := range VaultConfigNames {
		p := filepath.Join(vault, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// Load builds the configuration for vault. Later sources win:
//  1. Defaults
//  2. User config (~/.config/vaultsearch/config.yaml)
//  3. Vault config (.vaultsearch.yaml in the vault root)
//  4. Environment variables (VAULTSEARCH_*)
//
// vault may be empty, in which case step 3 is skipped.
func Load(vault string) (*Config, error) {
	cfg := NewConfig()

	if UserConfigExists() {
		if err := cfg.loadYAML(GetUserConfigPath()); err != nil {
			return nil, err
		}
	}

	if vault != "" {
		if path := VaultConfigPath(vault); path != "" {
			if err := cfg.loadYAML(path); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, vserrors.ConfigError("invalid configuration: "+err.Error(), err)
	}

	return cfg, nil
}

// LoadFile returns the defaults overlaid with the single file at path,
// without the other sources or environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML decodes path on top of c. Keys absent from the file keep their
// current value; lists present in the file replace the current list.
// Unknown keys are rejected.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return vserrors.New(vserrors.ErrCodeConfigNotFound, "failed to read config file "+path, err).
			WithDetail("path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return vserrors.ConfigError("failed to parse config file "+path, err).
			WithDetail("path", path).
			WithSuggestion("Run 'vaultsearch config show' to see the expected keys")
	}
	return nil
}

// applyEnvOverrides applies VAULTSEARCH_* environment variables.
// Unparseable values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VAULTSEARCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Search.Limit = n
		}
	}
	if v := os.Getenv("VAULTSEARCH_FILE_TYPES"); v != "" {
		c.Search.FileTypes = splitList(v)
	}
	if v := os.Getenv("VAULTSEARCH_CASE_SENSITIVE"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Search.CaseSensitive = b
		}
	}
	if v := os.Getenv("VAULTSEARCH_INCLUDE_IGNORED"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Search.IncludeIgnored = b
		}
	}
	if v := os.Getenv("VAULTSEARCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Search.Workers = n
		}
	}
	if v := os.Getenv("VAULTSEARCH_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("VAULTSEARCH_TRANSPORT"); v != "" {
		c.Server.Transport = strings.TrimSpace(v)
	}
	if v := os.Getenv("VAULTSEARCH_WATCH"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Server.Watch = b
		}
	}
}

// splitList splits a comma-separated env value, dropping empty items.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Search.Limit < 0 || c.Search.Limit > search.MaxLimit {
		return fmt.Errorf("search.limit must be between 0 and %d, got %d", search.MaxLimit, c.Search.Limit)
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("search.workers must be non-negative, got %d", c.Search.Workers)
	}
	for _, g := range append(append([]string{}, c.Search.Include...), c.Search.Exclude...) {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("search.include and search.exclude must not contain empty globs")
		}
	}
	if !strings.EqualFold(c.Server.Transport, "stdio") {
		return fmt.Errorf("server.transport must be 'stdio', got %s", c.Server.Transport)
	}
	if !logging.ValidLevel(c.Server.LogLevel) {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}
	return nil
}

// QueryOptions returns engine options carrying the configured defaults.
func (c *Config) QueryOptions() search.QueryOptions {
	return search.QueryOptions{
		Limit:          c.Search.Limit,
		CaseSensitive:  c.Search.CaseSensitive,
		IncludeIgnored: c.Search.IncludeIgnored,
		IncludeGlobs:   append([]string(nil), c.Search.Include...),
		ExcludeGlobs:   append([]string(nil), c.Search.Exclude...),
		FileTypes:      append([]string(nil), c.Search.FileTypes...),
	}
}

// WriteYAML writes the configuration to path, creating parent directories.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindVaultRoot walks up from startDir looking for a vault marker: an
// .obsidian directory, a vault config file, or a .git directory. It returns
// the absolute startDir when no marker is found.
func FindVaultRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absDir
	for {
		if dirExists(filepath.Join(current, ".obsidian")) ||
			VaultConfigPath(current) != "" ||
			dirExists(filepath.Join(current, ".git")) {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return absDir, nil
		}
		current = parent
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
