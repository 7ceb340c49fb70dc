package stages

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/book-wordfreq/pkg/corpus"
	"github.com/urfave/cli/v2"
)

// runStage runs one stage command with stdin and returns stdout.
func runStage(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := &cli.App{
		Name:     "book-wordfreq",
		Reader:   strings.NewReader(stdin),
		Writer:   &out,
		Flags:    []cli.Flag{&cli.BoolFlag{Name: "quiet"}},
		Commands: Commands(),
	}
	err := app.Run(append([]string{"book-wordfreq", "--quiet"}, args...))
	return out.String(), err
}

const book = `Produced by volunteers.
*** START OF THE PROJECT GUTENBERG EBOOK ***
The whale, the whale! Ahab's whale.
The sea was calm.
*** END OF THE PROJECT GUTENBERG EBOOK ***
License text about the whale.
`

func TestStagePipeline(t *testing.T) {
	mapped, err := runStage(t, book, "map")
	if err != nil {
		t.Fatalf("map error = %v", err)
	}
	if !strings.Contains(mapped, "whale\t1\n") || strings.Contains(mapped, "license") {
		t.Errorf("map output = %q", mapped)
	}

	sorted, err := runStage(t, mapped, "sort", "--chunk-lines", "2", "--temp-dir", t.TempDir())
	if err != nil {
		t.Fatalf("sort error = %v", err)
	}

	reduced, err := runStage(t, sorted, "reduce")
	if err != nil {
		t.Fatalf("reduce error = %v", err)
	}
	want := "whale\t3\nahab\t1\ncalm\t1\nsea\t1\n"
	if reduced != want {
		t.Errorf("reduce output = %q, want %q", reduced, want)
	}
}

func TestReduceSkipsMalformedLines(t *testing.T) {
	out, err := runStage(t, "ahab\t1\nbadword\tnotanumber\nwhale\t2\n", "reduce")
	if err != nil {
		t.Fatalf("reduce error = %v", err)
	}
	if out != "whale\t2\nahab\t1\n" {
		t.Errorf("reduce output = %q", out)
	}
}

func TestDimensionalStages(t *testing.T) {
	vocab := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(vocab, []byte("whale\t10\nsea\t4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	doc := "=====\nYear: 1851\n=====\nThe whale and the sea and the ship.\n=====\nYear: 1902\n=====\nA whale.\n"

	mapped, err := runStage(t, doc, "map", "--mode", "dimensional", "--vocab", vocab)
	if err != nil {
		t.Fatalf("map error = %v", err)
	}
	sorted, err := runStage(t, mapped, "sort")
	if err != nil {
		t.Fatalf("sort error = %v", err)
	}
	out, err := runStage(t, sorted, "reduce", "--mode", "dimensional")
	if err != nil {
		t.Fatalf("reduce error = %v", err)
	}
	want := "Word: sea (Total: 1)\n  1851:     1\nWord: whale (Total: 2)\n  1851:     1\n  1902:     1\n"
	if out != want {
		t.Errorf("dimensional output = %q, want %q", out, want)
	}
}

func TestDimensionalMapNeedsVocabulary(t *testing.T) {
	out, err := runStage(t, "=====\nYear: 1851\n=====\nwhale\n", "map", "--mode", "dimensional")
	if !errors.Is(err, corpus.ErrNoVocabulary) {
		t.Fatalf("map error = %v, want ErrNoVocabulary", err)
	}
	if out != "" {
		t.Errorf("map wrote output before failing: %q", out)
	}
}

func TestUnknownMode(t *testing.T) {
	if _, err := runStage(t, "", "reduce", "--mode", "bigram"); err == nil {
		t.Error("reduce with unknown mode returned nil error")
	}
}
