// Package mapreduce implements the batch word-frequency pipeline: a mapper
// that fans book lines out into (key, 1) records, an external sort that groups
// records by key, and a streaming reducer that totals each key run.
package mapreduce

import "fmt"

// Mode selects the record shape of a run.
type Mode string

const (
	// ModeUnigram counts words: "word\t1".
	ModeUnigram Mode = "unigram"
	// ModeDimensional counts vocabulary words per year: "word\tyear\t1".
	ModeDimensional Mode = "dimensional"
)

// ParseMode validates a mode name. The empty string means unigram.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeUnigram:
		return ModeUnigram, nil
	case ModeDimensional:
		return ModeDimensional, nil
	default:
		return "", fmt.Errorf("unknown mode %q (use: unigram or dimensional)", s)
	}
}

// Fields is the number of tab-separated fields of a record in this mode.
func (m Mode) Fields() int {
	if m == ModeDimensional {
		return 3
	}
	return 2
}
