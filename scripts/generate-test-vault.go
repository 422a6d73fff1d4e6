//go:build ignore

// Package main generates a synthetic notes vault for benchmarking and
// profiling searches.
// Usage: go run scripts/generate-test-vault.go -notes 5000 -output testdata/vault
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numNotes  = flag.Int("notes", 1000, "Number of notes to generate")
	outputDir = flag.String("output", "testdata/vault", "Output directory")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var folders = []string{"Daily", "Projects", "Areas/Health", "Areas/Finance", "Reading", "Archive", "drafts"}

var words = []string{
	"meeting", "roadmap", "garden", "budget", "recipe", "deploy", "kafka",
	"journal", "reading", "habit", "review", "retro", "invoice", "travel",
	"launch", "migration", "sleep", "running", "interview", "postgres",
	"design", "refactor", "weekly", "quarterly", "idea", "question",
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(filepath.Join(*outputDir, ".obsidian"), 0o755); err != nil {
		fail(err)
	}
	write(".obsidian/app.json", "{}\n")
	write(".gitignore", "drafts/\n*.tmp\n")
	write("Archive/.ignore", "old-*\n")

	titles := make([]string, 0, *numNotes)
	for i := 0; i < *numNotes; i++ {
		titles = append(titles, fmt.Sprintf("%s %s %d", pick(rng), pick(rng), i))
	}

	for i, title := range titles {
		folder := folders[rng.Intn(len(folders))]
		name := strings.ReplaceAll(title, " ", "-")
		if folder == "Archive" && rng.Intn(3) == 0 {
			name = "old-" + name
		}
		write(filepath.Join(folder, name+".md"), note(rng, title, titles, i))
	}

	fmt.Printf("Generated %d notes in %s\n", *numNotes, *outputDir)
}

func note(rng *rand.Rand, title string, titles []string, i int) string {
	var sb strings.Builder
	if rng.Intn(4) > 0 {
		fmt.Fprintf(&sb, "---\ntitle: %q\ntags: [%s, %s]\n---\n", title, pick(rng), pick(rng))
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	for p := 0; p < 3+rng.Intn(8); p++ {
		for w := 0; w < 20+rng.Intn(60); w++ {
			sb.WriteString(pick(rng))
			sb.WriteByte(' ')
		}
		if i > 0 && rng.Intn(2) == 0 {
			fmt.Fprintf(&sb, "See [[%s]].", titles[rng.Intn(i)])
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func pick(rng *rand.Rand) string {
	return words[rng.Intn(len(words))]
}

func write(rel, content string) {
	path := filepath.Join(*outputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fail(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
