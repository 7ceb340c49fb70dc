package mapreduce

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// WordCount is the aggregated count of one word.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// YearCount is the count of a word within one year.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// WordYears is the aggregated per-year breakdown of one word.
type WordYears struct {
	Word  string      `json:"word" yaml:"word"`
	Total int         `json:"total" yaml:"total"`
	Years []YearCount `json:"years" yaml:"years"`
}

// ReduceStats counts what the reducer consumed.
type ReduceStats struct {
	Records int `json:"records" yaml:"records"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Keys    int `json:"keys" yaml:"keys"`
}

// scanRecords feeds every well-formed record of r to fn and counts the
// malformed ones in stats.
func scanRecords(r io.Reader, mode Mode, stats *ReduceStats, fn func(Record) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseRecord(line, mode)
		if err != nil {
			// Malformed records are dropped silently
			stats.Skipped++
			continue
		}
		stats.Records++
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}
	return nil
}

// ReduceUnigram totals each contiguous run of equal words in r and calls
// emit once per run. Input must be grouped by word (see Sorter); memory use
// does not depend on the number of distinct words.
func ReduceUnigram(r io.Reader, emit func(WordCount) error) (ReduceStats, error) {
	var (
		stats   ReduceStats
		current string
		total   int
		have    bool
	)

	flush := func() error {
		if !have {
			return nil
		}
		stats.Keys++
		return emit(WordCount{Word: current, Count: total})
	}

	err := scanRecords(r, ModeUnigram, &stats, func(rec Record) error {
		if have && rec.Word == current {
			total += rec.Count
			return nil
		}
		if err := flush(); err != nil {
			return err
		}
		current, total, have = rec.Word, rec.Count, true
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, flush()
}

// ReduceDimensional totals each contiguous (word, year) run and emits one
// WordYears per word with years in ascending order.
func ReduceDimensional(r io.Reader, emit func(WordYears) error) (ReduceStats, error) {
	var (
		stats       ReduceStats
		currentWord string
		currentYear int
		total       int
		have        bool
		years       = make(map[int]int)
	)

	// flushKey folds the running (word, year) total into the word block
	flushKey := func() {
		if have {
			years[currentYear] += total
		}
	}
	flushWord := func() error {
		if !have {
			return nil
		}
		block := WordYears{Word: currentWord}
		for y, c := range years {
			block.Years = append(block.Years, YearCount{Year: y, Count: c})
			block.Total += c
		}
		sort.Slice(block.Years, func(i, j int) bool {
			return block.Years[i].Year < block.Years[j].Year
		})
		stats.Keys += len(block.Years)
		years = make(map[int]int)
		return emit(block)
	}

	err := scanRecords(r, ModeDimensional, &stats, func(rec Record) error {
		if have && rec.Word == currentWord && rec.Year == currentYear {
			total += rec.Count
			return nil
		}
		flushKey()
		if have && rec.Word != currentWord {
			if err := flushWord(); err != nil {
				return err
			}
		}
		currentWord, currentYear, total, have = rec.Word, rec.Year, rec.Count, true
		return nil
	})
	if err != nil {
		return stats, err
	}
	flushKey()
	return stats, flushWord()
}

// CollectUnigram reduces r and returns the counts in input order.
func CollectUnigram(r io.Reader) ([]WordCount, ReduceStats, error) {
	var out []WordCount
	stats, err := ReduceUnigram(r, func(wc WordCount) error {
		out = append(out, wc)
		return nil
	})
	return out, stats, err
}

// CollectDimensional reduces r and returns the word blocks in input order.
func CollectDimensional(r io.Reader) ([]WordYears, ReduceStats, error) {
	var out []WordYears
	stats, err := ReduceDimensional(r, func(wy WordYears) error {
		out = append(out, wy)
		return nil
	})
	return out, stats, err
}

// WriteUnigram writes "word\tcount" lines.
func WriteUnigram(w io.Writer, counts []WordCount) error {
	bw := bufio.NewWriter(w)
	for _, wc := range counts {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", wc.Word, wc.Count); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDimensional writes one block per word: a total header followed by one
// indented line per year.
func WriteDimensional(w io.Writer, blocks []WordYears) error {
	bw := bufio.NewWriter(w)
	for _, b := range blocks {
		if _, err := fmt.Fprintf(bw, "Word: %s (Total: %d)\n", b.Word, b.Total); err != nil {
			return err
		}
		for _, y := range b.Years {
			if _, err := fmt.Fprintf(bw, "  %d: %5d\n", y.Year, y.Count); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
