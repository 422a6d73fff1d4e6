package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

const (
	debugLine = `{"time":"2024-05-01T10:00:00.000Z","level":"DEBUG","msg":"file_skipped","path":"a.bin","reason":"binary"}`
	infoLine  = `{"time":"2024-05-01T10:00:01.000Z","level":"INFO","msg":"search_complete","results":3}`
	errorLine = `{"time":"2024-05-01T10:00:02.000Z","level":"ERROR","msg":"search_failed","error":"boom"}`
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaultsearch.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}
	return path
}

func TestParseLine_ValidJSON(t *testing.T) {
	entry := parseLine(debugLine)

	if !entry.IsValid {
		t.Fatal("expected valid entry")
	}
	if entry.Level != "DEBUG" || entry.Msg != "file_skipped" {
		t.Errorf("unexpected level/msg: %s %s", entry.Level, entry.Msg)
	}
	if !entry.Time.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected time: %v", entry.Time)
	}
	if entry.Attrs["reason"] != "binary" || entry.Attrs["path"] != "a.bin" {
		t.Errorf("unexpected attrs: %v", entry.Attrs)
	}
	if _, ok := entry.Attrs["msg"]; ok {
		t.Error("standard fields should not be repeated in attrs")
	}
}

func TestParseLine_InvalidJSON(t *testing.T) {
	entry := parseLine("panic: not json")

	if entry.IsValid {
		t.Error("expected invalid entry")
	}
	if entry.Raw != "panic: not json" {
		t.Errorf("raw line should be preserved, got %q", entry.Raw)
	}
}

func TestViewer_MatchesFilter(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ViewerConfig
		line    string
		matches bool
	}{
		{"no filter", ViewerConfig{}, debugLine, true},
		{"below level", ViewerConfig{Level: "info"}, debugLine, false},
		{"at level", ViewerConfig{Level: "info"}, infoLine, true},
		{"above level", ViewerConfig{Level: "warn"}, errorLine, true},
		{"pattern hit", ViewerConfig{Pattern: regexp.MustCompile("binary")}, debugLine, true},
		{"pattern miss", ViewerConfig{Pattern: regexp.MustCompile("binary")}, infoLine, false},
		{"invalid line ignores level", ViewerConfig{Level: "error"}, "plain text", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := NewViewer(tc.cfg, &bytes.Buffer{})
			if got := v.matchesFilter(parseLine(tc.line)); got != tc.matches {
				t.Errorf("matchesFilter = %v, want %v", got, tc.matches)
			}
		})
	}
}

func TestViewer_FormatEntry(t *testing.T) {
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})

	got := v.FormatEntry(parseLine(debugLine))

	want := "10:00:00.000 DEBUG file_skipped path=a.bin reason=binary"
	if got != want {
		t.Errorf("FormatEntry = %q, want %q", got, want)
	}
}

func TestViewer_FormatEntry_InvalidEntry(t *testing.T) {
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})

	if got := v.FormatEntry(parseLine("raw text")); got != "raw text" {
		t.Errorf("expected raw line, got %q", got)
	}
}

func TestViewer_FormatLevel(t *testing.T) {
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})

	tests := map[string]string{
		"debug":   "DEBUG",
		"INFO":    "INFO ",
		"warning": "WARN ",
		"error":   "ERROR",
		"trace":   "TRACE",
	}
	for in, want := range tests {
		if got := v.formatLevel(in); got != want {
			t.Errorf("formatLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestViewer_FormatLevel_Colored(t *testing.T) {
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})

	if got := v.formatLevel("error"); !strings.Contains(got, "ERROR") {
		t.Errorf("colored level should still contain the name, got %q", got)
	}
}

func TestViewer_Tail(t *testing.T) {
	path := writeLog(t, debugLine, infoLine, errorLine)
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})

	entries, err := v.Tail(path, 2)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Msg != "search_complete" || entries[1].Msg != "search_failed" {
		t.Errorf("expected the last two entries in order, got %s, %s", entries[0].Msg, entries[1].Msg)
	}
}

func TestViewer_Tail_WithLevelFilter(t *testing.T) {
	path := writeLog(t, debugLine, infoLine, errorLine)
	v := NewViewer(ViewerConfig{Level: "error"}, &bytes.Buffer{})

	entries, err := v.Tail(path, 10)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Msg != "search_failed" {
		t.Errorf("expected only the error entry, got %+v", entries)
	}
}

func TestViewer_Tail_NonexistentFile(t *testing.T) {
	v := NewViewer(ViewerConfig{}, &bytes.Buffer{})

	if _, err := v.Tail("/nonexistent/vaultsearch.log", 10); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestViewer_Print(t *testing.T) {
	var buf bytes.Buffer
	v := NewViewer(ViewerConfig{NoColor: true}, &buf)

	v.Print([]LogEntry{parseLine(infoLine), parseLine("raw")})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "10:00:01.000 INFO  search_complete results=3" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[1] != "raw" {
		t.Errorf("unexpected second line %q", lines[1])
	}
}

func TestViewer_Follow(t *testing.T) {
	path := writeLog(t, debugLine)
	v := NewViewer(ViewerConfig{Level: "info"}, &bytes.Buffer{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries := make(chan LogEntry, 4)
	done := make(chan error, 1)
	go func() { done <- v.Follow(ctx, path, entries) }()

	// Let Follow seek to the end before appending.
	time.Sleep(3 * followInterval)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString(debugLine + "\n" + infoLine + "\n")
	_ = f.Close()

	select {
	case entry := <-entries:
		if entry.Msg != "search_complete" {
			t.Errorf("expected only the info entry, got %s", entry.Msg)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for followed entry")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Follow returned error: %v", err)
	}
}
