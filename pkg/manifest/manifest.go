package manifest

import "github.com/dtnitsch/book-wordfreq/pkg/mapreduce"

// RunManifest represents the structure of the run summary YAML file.
// It gives an overview of every source in a run, its status, and the
// top keywords without reading the full frequency table.
type RunManifest struct {
	GeneratedAt       string                `yaml:"generated_at"`
	RunID             int64                 `yaml:"run_id,omitempty"`
	Mode              string                `yaml:"mode"`
	Output            string                `yaml:"output,omitempty"`
	TotalSources      int                   `yaml:"total_sources"`
	Mapped            int                   `yaml:"mapped"`
	Cached            int                   `yaml:"cached"`
	Skipped           int                   `yaml:"skipped"`
	Failed            int                   `yaml:"failed"`
	TotalWords        int                   `yaml:"total_words"`
	DistinctWords     int                   `yaml:"distinct_words"`
	Reduce            mapreduce.ReduceStats `yaml:"reduce"`
	AggregateKeywords []string              `yaml:"aggregate_keywords"`
	Documents         []DocumentSummary     `yaml:"documents"`
}

// DocumentSummary represents summary information for a single source.
type DocumentSummary struct {
	Source       string              `yaml:"source"`
	Title        string              `yaml:"title,omitempty"`
	Status       string              `yaml:"status"` // mapped, cached, skipped, failed
	ErrorType    string              `yaml:"error_type,omitempty"`
	ErrorMessage string              `yaml:"error_message,omitempty"`
	Language     string              `yaml:"language,omitempty"`
	Stats        *mapreduce.MapStats `yaml:"stats,omitempty"`
	TopKeywords  []string            `yaml:"top_keywords,omitempty"`
}
