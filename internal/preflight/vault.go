package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/vaultsearch/internal/config"
	"github.com/Aman-CERP/vaultsearch/internal/gitignore"
	"github.com/Aman-CERP/vaultsearch/internal/search"
)

// LargeVaultFiles is the file count above which searches get slow enough
// to warn about, since every search reads every file.
const LargeVaultFiles = 50000

// CheckVault checks that vault is a readable directory.
func (c *Checker) CheckVault(vault string) Result {
	res := Result{
		Name:     "vault",
		Required: true,
	}

	info, err := os.Stat(vault)
	switch {
	case err != nil:
		res.Status = StatusFail
		res.Message = fmt.Sprintf("not found: %s", vault)
		res.Details = err.Error()
		return res
	case !info.IsDir():
		res.Status = StatusFail
		res.Message = fmt.Sprintf("not a directory: %s", vault)
		return res
	}

	if _, err := os.ReadDir(vault); err != nil {
		res.Status = StatusFail
		res.Message = fmt.Sprintf("not readable: %v", err)
		return res
	}

	res.Status = StatusPass
	res.Message = vault
	return res
}

// CheckConfig loads the merged configuration for vault. The config is nil
// when loading fails.
func (c *Checker) CheckConfig(vault string) (Result, *config.Config) {
	res := Result{
		Name:     "config",
		Required: true,
	}

	cfg, err := config.Load(vault)
	if err != nil {
		res.Status = StatusFail
		res.Message = err.Error()
		res.Details = "Run 'vaultsearch config show --source vault' to inspect the vault file"
		return res, nil
	}

	var sources []string
	if config.UserConfigExists() {
		sources = append(sources, config.GetUserConfigPath())
	}
	if p := config.VaultConfigPath(vault); p != "" {
		sources = append(sources, p)
	}

	res.Status = StatusPass
	if len(sources) == 0 {
		res.Message = "defaults (no config files)"
	} else {
		res.Message = "valid"
		res.Details = strings.Join(sources, ", ")
	}
	return res, cfg
}

// CheckVaultSize counts the files a search with the configured defaults
// would read.
func (c *Checker) CheckVaultSize(vault string, cfg *config.Config) Result {
	res := Result{
		Name: "searchable_files",
	}

	engine := search.NewEngine(search.WithWorkers(cfg.Search.Workers))
	files, err := engine.ListFiles(vault, cfg.QueryOptions())
	if err != nil {
		res.Status = StatusWarn
		res.Message = fmt.Sprintf("failed to walk vault: %v", err)
		return res
	}

	res.Message = fmt.Sprintf("%d", len(files))
	switch {
	case len(files) == 0:
		res.Status = StatusWarn
		res.Details = "No file matches the configured file types and globs"
	case len(files) > LargeVaultFiles:
		res.Status = StatusWarn
		res.Details = "Every search reads every file; narrow search.include or search.file_types"
	default:
		res.Status = StatusPass
	}
	return res
}

// CheckIgnoreFiles reports the ignore files at the vault root and how many
// rules they declare.
func (c *Checker) CheckIgnoreFiles(vault string) Result {
	res := Result{
		Name:   "ignore_files",
		Status: StatusPass,
	}

	var found []string
	for _, name := range gitignore.FileNames {
		if _, err := os.Stat(filepath.Join(vault, name)); err == nil {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		res.Message = "none at vault root"
		return res
	}

	rules := gitignore.LoadDir(vault, "")
	res.Message = fmt.Sprintf("%s (%d rules)", strings.Join(found, ", "), len(rules))
	return res
}
