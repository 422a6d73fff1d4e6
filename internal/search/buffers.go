package search

import (
	"github.com/Aman-CERP/vaultsearch/internal/pathutil"
)

// dedupeBuffers normalizes buffer paths and keeps the last snapshot for each
// path. The result keeps first-seen order; the returned set holds every
// normalized path that disk traversal must skip.
func dedupeBuffers(buffers []OpenBuffer) ([]OpenBuffer, map[string]struct{}) {
	index := make(map[string]int, len(buffers))
	out := make([]OpenBuffer, 0, len(buffers))

	for _, b := range buffers {
		b.RelativePath = pathutil.Normalize(b.RelativePath)
		if b.RelativePath == "" {
			continue
		}
		if i, ok := index[b.RelativePath]; ok {
			out[i] = b
			continue
		}
		index[b.RelativePath] = len(out)
		out = append(out, b)
	}

	paths := make(map[string]struct{}, len(out))
	for _, b := range out {
		paths[b.RelativePath] = struct{}{}
	}
	return out, paths
}
