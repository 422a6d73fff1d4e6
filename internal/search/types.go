// Package search implements content and title search over a vault.
//
// Every call walks the vault afresh: there is no index, cache or state
// shared between calls. Content search honours caller-supplied open buffers,
// which replace the on-disk copy of the same file.
package search

// Source tells where a content match was found.
type Source string

const (
	// SourceBuffer marks a match found in a caller-supplied open buffer.
	SourceBuffer Source = "buffer"
	// SourceDisk marks a match found in a file read from disk.
	SourceDisk Source = "disk"
)

// OpenBuffer is an in-memory, possibly unsaved, version of a vault file.
type OpenBuffer struct {
	RelativePath string  `json:"relativePath"`
	Content      string  `json:"content"`
	MtimeMs      *int64  `json:"mtimeMs,omitempty"`
	IsDirty      bool    `json:"isDirty"`
	Title        *string `json:"title,omitempty"`
}

// ContentMatch is one content search result. A path appears at most once.
type ContentMatch struct {
	RelativePath string `json:"relativePath"`
	Title        string `json:"title"`
	Snippet      string `json:"snippet"`
	MtimeMs      int64  `json:"mtimeMs"`
	Source       Source `json:"source"`
	Line         int    `json:"line,omitempty"`
	Column       int    `json:"column,omitempty"`
}

// TitleMatch is one title search result.
type TitleMatch struct {
	RelativePath string `json:"relativePath"`
	Title        string `json:"title"`
	MtimeMs      int64  `json:"mtimeMs"`
	Size         int64  `json:"size"`
	Score        int    `json:"score"`
}

// scoredContent is a content match plus its ranking score.
type scoredContent struct {
	match ContentMatch
	score int
}
