// Package watcher reports changes under a vault directory.
//
// A Watcher follows every non-hidden directory with fsnotify and delivers
// the vault-relative paths that changed in debounced batches. Directories
// created while running are followed too. Callers decide what a change
// means; the MCP server re-lists the vault and updates its resources.
package watcher
