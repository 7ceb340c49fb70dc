package mapreduce

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		mode    Mode
		want    Record
		wantErr bool
	}{
		{"unigram", "whale\t1", ModeUnigram, Record{Word: "whale", Count: 1}, false},
		{"unigram trailing space", " whale\t3 ", ModeUnigram, Record{Word: "whale", Count: 3}, false},
		{"dimensional", "whale\t1851\t1", ModeDimensional, Record{Word: "whale", Year: 1851, HasYear: true, Count: 1}, false},
		{"bad count", "badword\tnotanumber", ModeUnigram, Record{}, true},
		{"too many fields", "whale\t1851\t1", ModeUnigram, Record{}, true},
		{"too few fields", "whale\t1", ModeDimensional, Record{}, true},
		{"bad year", "whale\tMDCCCLI\t1", ModeDimensional, Record{}, true},
		{"empty key", "\t1", ModeUnigram, Record{}, true},
		{"space separated", "whale 1", ModeUnigram, Record{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.line, tt.mode)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("ParseRecord() error = %v, want ErrMalformedRecord", err)
			}
			if got != tt.want {
				t.Errorf("ParseRecord() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReduceUnigram(t *testing.T) {
	in := "ahab\t1\nsea\t1\nsea\t2\nwhale\t1\nwhale\t1\nwhale\t1\n"
	counts, stats, err := CollectUnigram(strings.NewReader(in))
	if err != nil {
		t.Fatalf("CollectUnigram() error = %v", err)
	}
	want := []WordCount{{"ahab", 1}, {"sea", 3}, {"whale", 3}}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("counts = %v, want %v", counts, want)
	}
	if stats != (ReduceStats{Records: 6, Skipped: 0, Keys: 3}) {
		t.Errorf("stats = %+v", stats)
	}

	Rank(counts)
	want = []WordCount{{"sea", 3}, {"whale", 3}, {"ahab", 1}}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("ranked = %v, want %v", counts, want)
	}
}

func TestReduceSkipsMalformed(t *testing.T) {
	in := "ahab\t1\nbadword\tnotanumber\nwhale\t1\n\nwhale\t1\t1\nwhale\t1\n"
	counts, stats, err := CollectUnigram(strings.NewReader(in))
	if err != nil {
		t.Fatalf("CollectUnigram() error = %v", err)
	}
	want := []WordCount{{"ahab", 1}, {"whale", 2}}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("counts = %v, want %v", counts, want)
	}
	if stats.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", stats.Skipped)
	}
	for _, wc := range counts {
		if wc.Word == "badword" {
			t.Error("malformed record reached the output")
		}
	}
}

func TestRankTotalOrder(t *testing.T) {
	counts := []WordCount{
		{"whale", 2}, {"ahab", 5}, {"sea", 2}, {"ship", 9}, {"boat", 2}, {"oar", 5},
	}
	Rank(counts)
	for i := 1; i < len(counts); i++ {
		prev, cur := counts[i-1], counts[i]
		if prev.Count < cur.Count || (prev.Count == cur.Count && prev.Word > cur.Word) {
			t.Errorf("entries %d,%d violate order: %v then %v", i-1, i, prev, cur)
		}
	}
	if counts[0].Word != "ship" || counts[1].Word != "ahab" || counts[3].Word != "boat" {
		t.Errorf("Rank() = %v", counts)
	}
}

func TestReduceShardsAssociative(t *testing.T) {
	sorted := "ahab\t1\nahab\t1\nsea\t1\nsea\t1\nsea\t1\nship\t1\nwhale\t1\nwhale\t1\nwhale\t1\nwhale\t1\n"
	once, _, err := CollectUnigram(strings.NewReader(sorted))
	if err != nil {
		t.Fatal(err)
	}
	Rank(once)

	lines := strings.SplitAfter(strings.TrimSuffix(sorted, "\n"), "\n")
	for _, cuts := range [][]int{{1}, {3, 4}, {2, 5, 9}, {1, 2, 3, 4, 5, 6, 7, 8, 9}} {
		// Reduce each contiguous shard on its own
		var partial bytes.Buffer
		start := 0
		for _, end := range append(cuts, len(lines)) {
			shard := strings.Join(lines[start:end], "")
			counts, _, err := CollectUnigram(strings.NewReader(shard))
			if err != nil {
				t.Fatal(err)
			}
			if err := WriteUnigram(&partial, counts); err != nil {
				t.Fatal(err)
			}
			start = end
		}

		// Re-sort and reduce the concatenated shard outputs
		var resorted bytes.Buffer
		if err := (&Sorter{}).Sort(&partial, &resorted); err != nil {
			t.Fatal(err)
		}
		again, _, err := CollectUnigram(&resorted)
		if err != nil {
			t.Fatal(err)
		}
		Rank(again)

		if !reflect.DeepEqual(again, once) {
			t.Errorf("cuts %v: shard reduce = %v, want %v", cuts, again, once)
		}
	}
}

func TestReduceDimensional(t *testing.T) {
	in := strings.Join([]string{
		"sea\t1851\t1",
		"whale\t1851\t1",
		"whale\t1851\t1",
		"whale\t1902\t1",
		"whale\tbad\t1",
		"whale\t1902\t2",
	}, "\n")

	blocks, stats, err := CollectDimensional(strings.NewReader(in))
	if err != nil {
		t.Fatalf("CollectDimensional() error = %v", err)
	}
	want := []WordYears{
		{Word: "sea", Total: 1, Years: []YearCount{{1851, 1}}},
		{Word: "whale", Total: 5, Years: []YearCount{{1851, 2}, {1902, 3}}},
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("blocks = %+v, want %+v", blocks, want)
	}
	if stats.Skipped != 1 || stats.Records != 5 {
		t.Errorf("stats = %+v", stats)
	}

	var out bytes.Buffer
	if err := WriteDimensional(&out, blocks); err != nil {
		t.Fatal(err)
	}
	wantOut := "Word: sea (Total: 1)\n  1851:     1\nWord: whale (Total: 5)\n  1851:     2\n  1902:     3\n"
	if out.String() != wantOut {
		t.Errorf("WriteDimensional() = %q, want %q", out.String(), wantOut)
	}
}

func TestCombine(t *testing.T) {
	got := Combine(
		[]WordCount{{"whale", 2}, {"sea", 1}},
		[]WordCount{{"ahab", 3}, {"whale", 1}},
	)
	want := []WordCount{{"ahab", 3}, {"whale", 3}, {"sea", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Combine() = %v, want %v", got, want)
	}

	years := CombineYears(
		[]WordYears{{Word: "whale", Total: 1, Years: []YearCount{{1902, 1}}}},
		[]WordYears{{Word: "whale", Total: 2, Years: []YearCount{{1851, 2}}}, {Word: "ahab", Total: 1, Years: []YearCount{{1851, 1}}}},
	)
	wantYears := []WordYears{
		{Word: "ahab", Total: 1, Years: []YearCount{{1851, 1}}},
		{Word: "whale", Total: 3, Years: []YearCount{{1851, 2}, {1902, 1}}},
	}
	if !reflect.DeepEqual(years, wantYears) {
		t.Errorf("CombineYears() = %+v, want %+v", years, wantYears)
	}
}

func TestTopKeywords(t *testing.T) {
	counts := []WordCount{{"whale", 9}, {"sea", 4}, {"ahab", 2}}
	if got := TopKeywords(counts, 2); !reflect.DeepEqual(got, []string{"whale:9", "sea:4"}) {
		t.Errorf("TopKeywords() = %v", got)
	}
	if got := TopKeywords(counts, 10); len(got) != 3 {
		t.Errorf("TopKeywords(10) returned %d entries, want 3", len(got))
	}

	var out bytes.Buffer
	PrintTopKeywords(&out, counts, 2)
	if out.String() != "1. whale: 9\n2. sea: 4\n" {
		t.Errorf("PrintTopKeywords() = %q", out.String())
	}
}
