package mapreduce

import (
	"fmt"
	"io"
	"sort"
)

// Less is the unigram output order: count descending, then word ascending.
func Less(a, b WordCount) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Word < b.Word
}

// Rank sorts counts into output order in place.
func Rank(counts []WordCount) {
	sort.Slice(counts, func(i, j int) bool {
		return Less(counts[i], counts[j])
	})
}

// Combine merges counts from independently reduced partitions or shards,
// summing any word that appears more than once, and returns them ranked.
func Combine(parts ...[]WordCount) []WordCount {
	totals := make(map[string]int)
	for _, part := range parts {
		for _, wc := range part {
			totals[wc.Word] += wc.Count
		}
	}

	out := make([]WordCount, 0, len(totals))
	for w, c := range totals {
		out = append(out, WordCount{Word: w, Count: c})
	}
	Rank(out)
	return out
}

// CombineYears merges per-year blocks from several partitions and returns
// them sorted by word.
func CombineYears(parts ...[]WordYears) []WordYears {
	byWord := make(map[string]map[int]int)
	for _, part := range parts {
		for _, b := range part {
			years, ok := byWord[b.Word]
			if !ok {
				years = make(map[int]int)
				byWord[b.Word] = years
			}
			for _, y := range b.Years {
				years[y.Year] += y.Count
			}
		}
	}

	out := make([]WordYears, 0, len(byWord))
	for w, years := range byWord {
		block := WordYears{Word: w}
		for y, c := range years {
			block.Years = append(block.Years, YearCount{Year: y, Count: c})
			block.Total += c
		}
		sort.Slice(block.Years, func(i, j int) bool {
			return block.Years[i].Year < block.Years[j].Year
		})
		out = append(out, block)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Word < out[j].Word
	})
	return out
}

// Total sums all counts.
func Total(counts []WordCount) int {
	sum := 0
	for _, wc := range counts {
		sum += wc.Count
	}
	return sum
}

// TopKeywords returns the top N ranked counts as "word:count" strings
// (e.g., "whale:1153"). counts must already be ranked.
func TopKeywords(counts []WordCount, n int) []string {
	limit := min(n, len(counts))
	if limit < 0 {
		limit = 0
	}

	keywords := make([]string, limit)
	for i := 0; i < limit; i++ {
		keywords[i] = fmt.Sprintf("%s:%d", counts[i].Word, counts[i].Count)
	}
	return keywords
}

// YearKeywords returns the top N word blocks by total as "word:total"
// strings.
func YearKeywords(blocks []WordYears, n int) []string {
	counts := make([]WordCount, len(blocks))
	for i, b := range blocks {
		counts[i] = WordCount{Word: b.Word, Count: b.Total}
	}
	Rank(counts)
	return TopKeywords(counts, n)
}

// PrintTopKeywords prints the top N keywords in a numbered list format.
func PrintTopKeywords(w io.Writer, counts []WordCount, n int) {
	limit := min(n, len(counts))
	for i := 0; i < limit; i++ {
		fmt.Fprintf(w, "%d. %s: %d\n", i+1, counts[i].Word, counts[i].Count)
	}
}
