package stages

import (
	"bufio"
	"fmt"
	"time"

	"github.com/dtnitsch/book-wordfreq/internal/common"
	"github.com/dtnitsch/book-wordfreq/pkg/corpus"
	"github.com/dtnitsch/book-wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/book-wordfreq/pkg/tokenizer"
	"github.com/urfave/cli/v2"
)

// MapAction reads one document from stdin and writes its emission records
// to stdout.
func MapAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))
	startTime := time.Now()

	mode, err := mapreduce.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	opts := mapreduce.MapperOptions{
		Mode:       mode,
		Boundaries: c.Bool("boundaries"),
		Tokenizer:  tokenizer.New(tokenizer.Options{Stem: c.Bool("stem")}),
	}
	if mode == mapreduce.ModeDimensional {
		vocab, err := corpus.LoadVocabulary(c.String("vocab"))
		if err != nil {
			return err
		}
		opts.Vocabulary = vocab
		logger.Info("Loaded vocabulary", "path", c.String("vocab"), "words", vocab.Len())
	}

	mapper, err := mapreduce.NewMapper(opts)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(c.App.Writer)
	stats, err := mapper.MapDocument(c.App.Reader, mapreduce.LineEmitter(out))
	if err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	logger.Info("Map stage finished",
		"mode", mode,
		"lines", stats.Lines,
		"admitted", stats.Admitted,
		"rescued", stats.Rescued,
		"emitted", stats.Emitted,
		"final_state", stats.FinalState,
		"duration", time.Since(startTime).String(),
	)
	return nil
}

// SortAction groups the records on stdin by key.
func SortAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))
	startTime := time.Now()

	sorter := &mapreduce.Sorter{
		ChunkLines: c.Int("chunk-lines"),
		TempDir:    c.String("temp-dir"),
	}
	if err := sorter.Sort(c.App.Reader, c.App.Writer); err != nil {
		return err
	}

	logger.Info("Sort stage finished", "chunk_lines", sorter.ChunkLines, "duration", time.Since(startTime).String())
	return nil
}

// ReduceAction totals the grouped records on stdin and writes the final
// table. Unigram output is ranked by count.
func ReduceAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))
	startTime := time.Now()

	mode, err := mapreduce.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	var stats mapreduce.ReduceStats
	switch mode {
	case mapreduce.ModeDimensional:
		var blocks []mapreduce.WordYears
		blocks, stats, err = mapreduce.CollectDimensional(c.App.Reader)
		if err != nil {
			return err
		}
		if err := mapreduce.WriteDimensional(c.App.Writer, blocks); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	default:
		var counts []mapreduce.WordCount
		counts, stats, err = mapreduce.CollectUnigram(c.App.Reader)
		if err != nil {
			return err
		}
		mapreduce.Rank(counts)
		if err := mapreduce.WriteUnigram(c.App.Writer, counts); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	}

	logger.Info("Reduce stage finished",
		"mode", mode,
		"records", stats.Records,
		"skipped", stats.Skipped,
		"keys", stats.Keys,
		"duration", time.Since(startTime).String(),
	)
	return nil
}
