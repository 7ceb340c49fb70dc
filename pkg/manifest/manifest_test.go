package manifest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/book-wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/book-wordfreq/pkg/storage"
	"gopkg.in/yaml.v3"
)

func TestBuildAndSave(t *testing.T) {
	results := []DocumentResult{
		{
			Source:     "books/moby.txt",
			Title:      "Moby Dick",
			Status:     StatusMapped,
			Language:   "english",
			Stats:      &mapreduce.MapStats{Lines: 10, Emitted: 6, FinalState: "after_end"},
			WordCounts: []mapreduce.WordCount{{Word: "whale", Count: 4}, {Word: "sea", Count: 2}},
		},
		{Source: "books/cached.txt", Status: StatusCached},
		{Source: "books/roman.txt", Status: StatusSkipped, Language: "french"},
		{Source: "books/missing.txt", Status: StatusFailed, ErrorType: "load_error", Error: errors.New("no such file")},
	}
	totals := Totals{
		RunID:  7,
		Mode:   "unigram",
		Output: "out.txt",
		Counts: []mapreduce.WordCount{{Word: "whale", Count: 4}, {Word: "sea", Count: 2}},
		Reduce: mapreduce.ReduceStats{Records: 6, Keys: 2},
	}

	m := Build(results, totals)
	if m.TotalSources != 4 || m.Mapped != 1 || m.Cached != 1 || m.Skipped != 1 || m.Failed != 1 {
		t.Errorf("status counts = %+v", m)
	}
	if m.TotalWords != 6 || m.DistinctWords != 2 {
		t.Errorf("TotalWords = %d, DistinctWords = %d", m.TotalWords, m.DistinctWords)
	}
	if len(m.AggregateKeywords) != 2 || m.AggregateKeywords[0] != "whale:4" {
		t.Errorf("AggregateKeywords = %v", m.AggregateKeywords)
	}
	if m.Documents[3].ErrorMessage != "no such file" {
		t.Errorf("ErrorMessage = %q", m.Documents[3].ErrorMessage)
	}

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	s := &storage.Storage{}
	written, err := Save(m, path, s)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if written != path {
		t.Errorf("Save() path = %q, want %q", written, path)
	}

	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded RunManifest
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("manifest is not valid YAML: %v", err)
	}
	if decoded.RunID != 7 || len(decoded.Documents) != 4 {
		t.Errorf("decoded manifest = %+v", decoded)
	}
	if decoded.Documents[0].Stats == nil || decoded.Documents[0].Stats.FinalState != "after_end" {
		t.Errorf("document stats did not round-trip: %+v", decoded.Documents[0].Stats)
	}
}
