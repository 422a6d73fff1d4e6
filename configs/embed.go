// Package configs embeds the commented configuration templates written by
// `vaultsearch config init`.
//
// Configuration hierarchy (see internal/config Load):
//  1. Defaults (config.NewConfig)
//  2. User config (~/.config/vaultsearch/config.yaml)
//  3. Vault config (.vaultsearch.yaml in the vault root)
//  4. Environment variables (VAULTSEARCH_*)
package configs

import _ "embed"

// UserConfigTemplate is written by `vaultsearch config init --user`.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// VaultConfigTemplate is written by `vaultsearch config init` into the
// vault root as .vaultsearch.yaml.
//
//go:embed vault-config.example.yaml
var VaultConfigTemplate string
