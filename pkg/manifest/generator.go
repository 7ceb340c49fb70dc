package manifest

import (
	"fmt"
	"time"

	"github.com/dtnitsch/book-wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/book-wordfreq/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Document statuses.
const (
	StatusMapped  = "mapped"
	StatusCached  = "cached"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// KeywordLimit is how many keywords the manifest lists per document and
// for the whole run.
const KeywordLimit = 25

// DocumentResult represents the outcome of mapping a single source.
// This is passed in from the run action to avoid circular dependencies.
type DocumentResult struct {
	Source     string
	Title      string
	Status     string
	Language   string
	Error      error
	ErrorType  string
	Stats      *mapreduce.MapStats
	WordCounts []mapreduce.WordCount // ranked
}

// Totals describes the reduced output of a run.
type Totals struct {
	RunID  int64
	Mode   string
	Output string
	Counts []mapreduce.WordCount // ranked
	Reduce mapreduce.ReduceStats
}

// Build assembles the manifest for a run.
func Build(results []DocumentResult, totals Totals) *RunManifest {
	m := &RunManifest{
		GeneratedAt:       time.Now().Format(time.RFC3339),
		RunID:             totals.RunID,
		Mode:              totals.Mode,
		Output:            totals.Output,
		TotalSources:      len(results),
		TotalWords:        mapreduce.Total(totals.Counts),
		DistinctWords:     len(totals.Counts),
		Reduce:            totals.Reduce,
		AggregateKeywords: mapreduce.TopKeywords(totals.Counts, KeywordLimit),
	}

	for _, result := range results {
		summary := DocumentSummary{
			Source:   result.Source,
			Title:    result.Title,
			Status:   result.Status,
			Language: result.Language,
			Stats:    result.Stats,
		}

		switch result.Status {
		case StatusFailed:
			m.Failed++
			summary.ErrorType = result.ErrorType
			if result.Error != nil {
				summary.ErrorMessage = result.Error.Error()
			}
		case StatusSkipped:
			m.Skipped++
		case StatusCached:
			m.Cached++
		default:
			m.Mapped++
		}

		if result.WordCounts != nil {
			summary.TopKeywords = mapreduce.TopKeywords(result.WordCounts, KeywordLimit)
		}

		m.Documents = append(m.Documents, summary)
	}

	return m
}

// Save writes the manifest as YAML. An empty path saves to
// results/manifest-<date>.yaml. Returns the path written.
func Save(m *RunManifest, path string, s *storage.Storage) (string, error) {
	if path == "" {
		path = fmt.Sprintf("results/manifest-%s.yaml", time.Now().Format("2006-01-02"))
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := s.SaveFile(path, data); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}

	return path, nil
}
