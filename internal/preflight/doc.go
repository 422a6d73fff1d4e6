// Package preflight checks that a vault can be searched before a long
// session starts.
//
// The checks cover:
//   - The vault directory (exists, is a directory, is readable)
//   - The merged configuration for the vault
//   - The number of searchable files (every search re-reads all of them)
//   - The ignore files at the vault root
//   - The log directory (writable)
//   - The file descriptor limit
//
// Run every check and render the report:
//
//	rep := preflight.New().RunAll(ctx, "/path/to/vault")
//	rep.WriteText(output.New(os.Stdout), false)
//	if rep.Failed() {
//	    // a required check failed
//	}
package preflight
