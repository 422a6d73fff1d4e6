package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Lines(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w *Writer)
		expected string
	}{
		{
			name:     "icon and message",
			write:    func(w *Writer) { w.Line(IconPath, "Location: %s", "/notes") },
			expected: "📁 Location: /notes\n",
		},
		{
			name:     "no icon indents",
			write:    func(w *Writer) { w.Line("", "detail") },
			expected: "   detail\n",
		},
		{
			name:     "success",
			write:    func(w *Writer) { w.Success("Wrote %s", ".vaultsearch.yaml") },
			expected: "✅ Wrote .vaultsearch.yaml\n",
		},
		{
			name:     "warning",
			write:    func(w *Writer) { w.Warning("%d files skipped", 2) },
			expected: "⚠️  2 files skipped\n",
		},
		{
			name:     "error",
			write:    func(w *Writer) { w.Error("vault not found: %s", "/nope") },
			expected: "❌ vault not found: /nope\n",
		},
		{
			name:     "blank",
			write:    func(w *Writer) { w.Blank() },
			expected: "\n",
		},
		{
			name:     "percent in an argument is kept",
			write:    func(w *Writer) { w.Success("%s", "100% done") },
			expected: "✅ 100% done\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a plain writer over a buffer
			buf := &bytes.Buffer{}
			w := New(buf)

			// When: writing one line
			tt.write(w)

			// Then: the exact text is written
			assert.Equal(t, tt.expected, buf.String())
			assert.NoError(t, w.Err())
		})
	}
}

type failWriter struct{ calls int }

func (f *failWriter) Write([]byte) (int, error) {
	f.calls++
	return 0, errors.New("closed pipe")
}

func TestWriter_ErrStopsAfterFirstFailure(t *testing.T) {
	fw := &failWriter{}
	w := New(fw)

	w.Success("one")
	w.Warning("two")
	w.Blank()

	require.EqualError(t, w.Err(), "closed pipe")
	assert.Equal(t, 1, fw.calls)
}
