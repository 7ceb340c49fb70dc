package count

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dtnitsch/book-wordfreq/internal/common"
	"github.com/dtnitsch/book-wordfreq/models"
	"github.com/dtnitsch/book-wordfreq/pkg/corpus"
	"github.com/dtnitsch/book-wordfreq/pkg/db"
	"github.com/dtnitsch/book-wordfreq/pkg/manifest"
	"github.com/dtnitsch/book-wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/book-wordfreq/pkg/storage"
	"github.com/dtnitsch/book-wordfreq/pkg/tokenizer"
	"github.com/urfave/cli/v2"
)

func newTokenizer(cfg *models.Config) *tokenizer.Tokenizer {
	return tokenizer.New(tokenizer.Options{Stem: cfg.Stem})
}

// resolveConfig loads --config (or the defaults) and applies any flag the
// user set explicitly on top.
func resolveConfig(c *cli.Context) (*models.Config, error) {
	cfg := models.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("mode") {
		cfg.Mode = c.String("mode")
	}
	if c.IsSet("vocab") {
		cfg.VocabularyFile = c.String("vocab")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("partitions") {
		cfg.Partitions = c.Int("partitions")
	}
	if c.IsSet("chunk-lines") {
		cfg.ChunkLines = c.Int("chunk-lines")
	}
	if c.IsSet("temp-dir") {
		cfg.TempDir = c.String("temp-dir")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("cache-ttl") {
		cfg.CacheTTL = c.Duration("cache-ttl")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("manifest") {
		cfg.Manifest = c.String("manifest")
	}
	if c.IsSet("top") {
		cfg.Top = c.Int("top")
	}
	if c.IsSet("english-only") {
		cfg.EnglishOnly = c.Bool("english-only")
	}
	if c.IsSet("stem") {
		cfg.Stem = c.Bool("stem")
	}
	if c.IsSet("boundaries") {
		cfg.Boundaries = c.Bool("boundaries")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = string(mapreduce.ModeUnigram)
	}
	return cfg, nil
}

// RunAction counts words over files, directories and URLs in one process.
func RunAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))
	startTime := time.Now()

	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	sources, err := corpus.Expand(common.SanitizeSources(c.Args().Slice()))
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New("no sources given. Usage: book-wordfreq run [flags] FILE|DIR|URL...")
	}

	pipeline, err := NewPipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	outcome, err := pipeline.Run(c.Context, sources)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range outcome.Results {
		if r.Status == manifest.StatusFailed {
			failed++
		}
	}
	if failed == len(sources) {
		return fmt.Errorf("all %d sources failed to load", failed)
	}

	s := &storage.Storage{}
	if err := writeOutput(c.App.Writer, s, cfg, outcome); err != nil {
		return err
	}

	var runID int64
	if !c.Bool("no-db") {
		runID, err = recordRun(cfg, outcome, len(sources))
		if err != nil {
			// The frequency table is already written; losing the history row is not fatal
			logger.Warn("Failed to record run in database", "error", err)
		}
	}

	if cfg.Manifest != "" {
		m := manifest.Build(documentResults(outcome), manifest.Totals{
			RunID:  runID,
			Mode:   cfg.Mode,
			Output: cfg.Output,
			Counts: outcome.Counts,
			Reduce: outcome.Reduce,
		})
		path, err := manifest.Save(m, cfg.Manifest, s)
		if err != nil {
			logger.Warn("Failed to write manifest", "error", err)
		} else {
			logger.Info("Manifest saved", "path", path)
		}
	}

	// The ranked table only goes to stdout when there is no output file
	if cfg.Output != "" && cfg.Top > 0 {
		fmt.Fprintf(c.App.Writer, "--- Top %d Words ---\n", cfg.Top)
		mapreduce.PrintTopKeywords(c.App.Writer, outcome.Counts, cfg.Top)
	}

	logger.Info("Run finished",
		"run_id", runID,
		"sources", len(sources),
		"mapped", outcome.Mapped(),
		"failed", failed,
		"words", mapreduce.Total(outcome.Counts),
		"distinct", len(outcome.Counts),
		"skipped_records", outcome.Reduce.Skipped,
		"duration", time.Since(startTime).String(),
	)
	return nil
}

// writeOutput writes the frequency table to cfg.Output atomically, or to
// stdout when no output file is configured.
func writeOutput(stdout io.Writer, s *storage.Storage, cfg *models.Config, outcome *Outcome) error {
	write := func(w io.Writer) error {
		if cfg.Mode == string(mapreduce.ModeDimensional) {
			return mapreduce.WriteDimensional(w, outcome.Blocks)
		}
		return mapreduce.WriteUnigram(w, outcome.Counts)
	}

	if cfg.Output == "" {
		if err := write(stdout); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		return nil
	}

	w, err := s.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Abort()
		return fmt.Errorf("failed to write results: %w", err)
	}
	return w.Commit()
}

func documentResults(outcome *Outcome) []manifest.DocumentResult {
	out := make([]manifest.DocumentResult, len(outcome.Results))
	for i, r := range outcome.Results {
		out[i] = manifest.DocumentResult{
			Source:     r.Source,
			Title:      r.Title,
			Status:     r.Status,
			Language:   r.Language,
			Error:      r.Error,
			ErrorType:  r.ErrorType,
			Stats:      r.Stats,
			WordCounts: r.WordCounts,
		}
	}
	return out
}

// recordRun stores the run, its documents and its counts.
func recordRun(cfg *models.Config, outcome *Outcome, sourceCount int) (int64, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return 0, err
	}
	defer database.Close()

	runID, err := database.InsertRun(db.Run{
		Mode:             cfg.Mode,
		SourceCount:      sourceCount,
		DocumentCount:    outcome.Mapped(),
		SkippedCount:     len(outcome.Results) - outcome.Mapped(),
		TotalWords:       mapreduce.Total(outcome.Counts),
		DistinctWords:    len(outcome.Counts),
		MalformedRecords: outcome.Reduce.Skipped,
		OutputPath:       cfg.Output,
		TopKeywords:      mapreduce.TopKeywords(outcome.Counts, manifest.KeywordLimit),
	})
	if err != nil {
		return 0, err
	}

	var errs []error
	for _, r := range outcome.Results {
		d := db.Document{
			Source:   r.Source,
			Title:    r.Title,
			Language: r.Language,
			Status:   r.Status,
		}
		if r.Error != nil {
			d.ErrorMessage = r.Error.Error()
		}
		if r.Stats != nil {
			d.Lines = r.Stats.Lines
			d.Emitted = r.Stats.Emitted
			d.FinalState = r.Stats.FinalState
		}
		if err := database.InsertDocument(runID, d); err != nil {
			errs = append(errs, err)
		}
	}

	if err := database.InsertCounts(runID, countRows(cfg, outcome)); err != nil {
		errs = append(errs, err)
	}
	return runID, errors.Join(errs...)
}

func countRows(cfg *models.Config, outcome *Outcome) []db.WordCount {
	var rows []db.WordCount
	if cfg.Mode == string(mapreduce.ModeDimensional) {
		for _, b := range outcome.Blocks {
			for _, y := range b.Years {
				rows = append(rows, db.WordCount{Word: b.Word, Year: y.Year, Count: y.Count})
			}
		}
		return rows
	}
	for _, wc := range outcome.Counts {
		rows = append(rows, db.WordCount{Word: wc.Word, Count: wc.Count})
	}
	return rows
}
