package mapreduce

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/book-wordfreq/pkg/corpus"
	"github.com/dtnitsch/book-wordfreq/pkg/detector"
	"github.com/dtnitsch/book-wordfreq/pkg/tokenizer"
)

// DefaultSampleBytes is how much admitted text MapStats keeps for language
// detection.
const DefaultSampleBytes = 4096

// MapperOptions configures a Mapper.
type MapperOptions struct {
	Mode Mode
	// Vocabulary is required in dimensional mode and ignored otherwise.
	Vocabulary corpus.Vocabulary
	// Boundaries runs the boundary detector in dimensional mode. Unigram
	// mode always uses it.
	Boundaries bool
	Tokenizer  *tokenizer.Tokenizer
	// SampleBytes bounds MapStats.Sample; 0 uses DefaultSampleBytes and a
	// negative value disables sampling.
	SampleBytes int
}

// Mapper turns documents into emission records. It holds no per-document
// state and may be shared between goroutines.
type Mapper struct {
	mode        Mode
	vocab       corpus.Vocabulary
	boundaries  bool
	tok         *tokenizer.Tokenizer
	det         *detector.Detector
	sampleBytes int
}

// MapStats describes what happened to one document.
type MapStats struct {
	Lines      int                   `json:"lines" yaml:"lines"`
	Blank      int                   `json:"blank" yaml:"blank"`
	Dropped    int                   `json:"dropped" yaml:"dropped"`
	Admitted   int                   `json:"admitted" yaml:"admitted"`
	Rescued    int                   `json:"rescued" yaml:"rescued"`
	Emitted    int                   `json:"emitted" yaml:"emitted"`
	FinalState string                `json:"final_state,omitempty" yaml:"final_state,omitempty"`
	Rules      map[detector.Rule]int `json:"rules,omitempty" yaml:"rules,omitempty"`
	Years      []int                 `json:"years,omitempty" yaml:"years,omitempty"`
	Sample     string                `json:"-" yaml:"-"`
}

// NewMapper validates opts and builds a Mapper.
func NewMapper(opts MapperOptions) (*Mapper, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	if mode == ModeDimensional && opts.Vocabulary.Len() == 0 {
		return nil, fmt.Errorf("dimensional mapper: %w", corpus.ErrNoVocabulary)
	}

	tok := opts.Tokenizer
	if tok == nil {
		tok = tokenizer.New(tokenizer.Options{})
	}
	sample := opts.SampleBytes
	if sample == 0 {
		sample = DefaultSampleBytes
	}

	return &Mapper{
		mode:        mode,
		vocab:       opts.Vocabulary,
		boundaries:  mode == ModeUnigram || opts.Boundaries,
		tok:         tok,
		det:         detector.New(),
		sampleBytes: sample,
	}, nil
}

// Mode returns the record mode of the mapper.
func (m *Mapper) Mode() Mode {
	return m.mode
}

// docState is everything that belongs to one document.
type docState struct {
	tracker    *detector.Tracker
	inMetadata bool
	year       int
	hasYear    bool
	sample     strings.Builder
	stats      *MapStats
}

// MapDocument reads one document and calls emit for every record, in input
// order. Emit errors abort the document.
func (m *Mapper) MapDocument(r io.Reader, emit func(Record) error) (*MapStats, error) {
	st := &docState{
		tracker: detector.NewTracker(),
		stats:   &MapStats{Rules: make(map[detector.Rule]int)},
	}

	err := corpus.ScanLines(r, func(l corpus.LineRecord) error {
		st.stats.Lines++
		if m.mode == ModeDimensional {
			return m.mapDimensional(st, l.Text, emit)
		}
		return m.mapUnigram(st, l.Text, emit)
	})
	if err != nil {
		return st.stats, fmt.Errorf("failed to map document: %w", err)
	}

	if m.boundaries {
		st.stats.FinalState = st.tracker.State.String()
	}
	st.stats.Sample = st.sample.String()
	return st.stats, nil
}

// segment runs the boundary detector and returns the words the line
// contributes.
func (m *Mapper) segment(st *docState, line string) []string {
	dec := m.det.Next(st.tracker, line)
	st.stats.Rules[dec.Rule]++

	switch dec.Action {
	case detector.Emit:
		st.stats.Admitted++
		m.keepSample(st, line)
		return m.tok.Tokenize(line)
	case detector.Rescue:
		var rescued []string
		for _, token := range tokenizer.Tokens(line) {
			// Rescue membership is decided before stemming
			if w, ok := tokenizer.Clean(token); ok && detector.IsRescueWord(w) {
				rescued = append(rescued, m.tok.Stem(w))
			}
		}
		st.stats.Rescued += len(rescued)
		return rescued
	default:
		if dec.Rule == detector.RuleBlank {
			st.stats.Blank++
		} else {
			st.stats.Dropped++
		}
		return nil
	}
}

func (m *Mapper) mapUnigram(st *docState, line string, emit func(Record) error) error {
	for _, w := range m.segment(st, line) {
		if err := emit(Record{Word: w, Count: 1}); err != nil {
			return err
		}
		st.stats.Emitted++
	}
	return nil
}

func (m *Mapper) mapDimensional(st *docState, line string, emit func(Record) error) error {
	// Metadata blocks are consumed before segmentation sees them
	if corpus.IsSeparator(line) {
		st.inMetadata = !st.inMetadata
		return nil
	}
	if st.inMetadata {
		if year, ok := corpus.ParseYear(line); ok {
			st.year, st.hasYear = year, true
			st.stats.Years = append(st.stats.Years, year)
		}
		return nil
	}

	var words []string
	if m.boundaries {
		words = m.segment(st, line)
	} else if strings.TrimSpace(line) == "" {
		st.stats.Blank++
		return nil
	} else {
		st.stats.Admitted++
		m.keepSample(st, line)
		words = m.tok.Tokenize(line)
	}

	// Without a year context there is no key to emit under
	if !st.hasYear {
		return nil
	}

	for _, w := range words {
		if !m.vocab.Contains(w) {
			continue
		}
		if err := emit(Record{Word: w, Year: st.year, HasYear: true, Count: 1}); err != nil {
			return err
		}
		st.stats.Emitted++
	}
	return nil
}

func (m *Mapper) keepSample(st *docState, line string) {
	if m.sampleBytes < 0 || st.sample.Len() >= m.sampleBytes {
		return
	}
	if st.sample.Len() > 0 {
		st.sample.WriteByte(' ')
	}
	st.sample.WriteString(strings.TrimSpace(line))
}

// LineEmitter returns an emit function writing one record per line to w.
// The caller flushes w.
func LineEmitter(w *bufio.Writer) func(Record) error {
	return func(r Record) error {
		if _, err := w.WriteString(r.String()); err != nil {
			return err
		}
		return w.WriteByte('\n')
	}
}
