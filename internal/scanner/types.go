// Package scanner discovers searchable files in a vault.
// It walks the directory tree depth-first, honouring nested .gitignore,
// .ignore and .rgignore files, user include/exclude globs and file-type
// filters, and reads candidate files with size and binary guards.
package scanner

import (
	"time"
)

// MaxFileSize is the largest file the reader accepts (10 MiB).
const MaxFileSize = 10 * 1024 * 1024

// BinarySampleSize is how many leading bytes the binary heuristic inspects.
const BinarySampleSize = 8000

// binaryControlPercent is the share of control-like bytes above which a
// sample is classified as binary.
const binaryControlPercent = 30

// obsidianDir is the vault metadata directory that is never searched.
const obsidianDir = ".obsidian"

// FileInfo describes a candidate file discovered by the scanner.
type FileInfo struct {
	Path    string    // POSIX path relative to the vault root
	AbsPath string    // Absolute path on disk
	Size    int64     // File size in bytes at discovery time
	ModTime time.Time // Last modification time at discovery time
}

// ScanOptions configures a vault walk.
type ScanOptions struct {
	// RootDir is the vault root to walk.
	RootDir string

	// IncludeIgnored disables ignore-file processing entirely.
	IncludeIgnored bool

	// Filter restricts which files are yielded. Nil allows every file.
	Filter *PathFilter
}

// ScanResult is returned from the scanner channel.
type ScanResult struct {
	File  *FileInfo
	Error error
}
