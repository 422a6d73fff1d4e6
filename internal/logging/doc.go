// Package logging provides opt-in file logging with size-based rotation.
//
// With --debug, or whenever the MCP server runs, JSON log lines are written
// to ~/.vaultsearch/logs/vaultsearch.log. Without it the CLI logs warnings to
// stderr only. The Viewer reads those files back for `vaultsearch logs`.
package logging
