// Package detector classifies the lines of a book stream as boilerplate,
// table of contents, or narrative.
//
// A Detector holds only the immutable rule table. All per-document state lives
// in a Tracker owned by the caller, so one Detector can serve many documents
// concurrently as long as each document has its own Tracker.
package detector

import (
	"regexp"
	"strings"
)

// TocLineLimit is the line length (in characters) above which a line inside
// a table of contents is taken to be narrative.
const TocLineLimit = 65

// State is the segmentation state of a document.
type State int

const (
	BeforeStart State = iota
	AfterStart
	InToc
	InStory
	AfterEnd
)

func (s State) String() string {
	switch s {
	case BeforeStart:
		return "before_start"
	case AfterStart:
		return "after_start"
	case InToc:
		return "in_toc"
	case InStory:
		return "in_story"
	case AfterEnd:
		return "after_end"
	default:
		return "unknown"
	}
}

// Action tells the caller what to do with a line.
type Action int

const (
	// Drop discards the line.
	Drop Action = iota
	// Emit tokenizes the whole line.
	Emit
	// Rescue tokenizes the line but keeps only rescue words.
	Rescue
)

func (a Action) String() string {
	switch a {
	case Emit:
		return "emit"
	case Rescue:
		return "rescue"
	default:
		return "drop"
	}
}

// Rule names the transition that produced a Decision.
type Rule string

const (
	RuleStartMarker Rule = "start_marker"
	RuleEndMarker   Rule = "end_marker"
	RuleOutside     Rule = "outside_markers"
	RuleBlank       Rule = "blank"
	RuleTocHeader   Rule = "toc_header"
	RuleHeading     Rule = "toc_heading"
	RuleNarrator    Rule = "toc_narrator"
	RulePunctuation Rule = "toc_punctuation_exit"
	RuleKeyword     Rule = "toc_keyword_exit"
	RuleLength      Rule = "toc_length_exit"
	RuleTocDefault  Rule = "toc_default"
	RuleStory       Rule = "story"
)

// Decision is the outcome for one line. State is the state after the line.
type Decision struct {
	Action Action
	Rule   Rule
	State  State
}

// Tracker is the mutable per-document state.
type Tracker struct {
	State      State
	BlankLines int
	Line       int
}

// NewTracker returns a tracker positioned before the first start marker.
func NewTracker() *Tracker {
	return &Tracker{State: BeforeStart}
}

var (
	startMarker = regexp.MustCompile(`(?i)\*\*\*\s*START OF`)
	endMarker   = regexp.MustCompile(`(?i)\*\*\*\s*END OF`)
	tocHeader   = regexp.MustCompile(`^(contents?|table of contents|index|list of illustrations):?$`)
)

// rescueWords survive inside a table of contents even though the rest of the
// line is discarded.
var rescueWords = map[string]struct{}{
	"man":    {},
	"holmes": {},
	"house":  {},
}

// IsRescueWord reports whether a normalized word is emitted from TOC lines.
func IsRescueWord(word string) bool {
	_, ok := rescueWords[word]
	return ok
}

// line is a pre-computed view of one input line shared by all predicates.
type line struct {
	raw     string // trailing whitespace removed
	trimmed string
	lower   string // lowercased trimmed text
}

func newLine(raw string) line {
	raw = strings.TrimRight(raw, " \t\r\n")
	trimmed := strings.TrimSpace(raw)
	return line{raw: raw, trimmed: trimmed, lower: strings.ToLower(trimmed)}
}

// tocRule is one predicate -> action pair of the table-of-contents table.
type tocRule struct {
	rule   Rule
	match  func(l line) bool
	action Action
	next   State
}

// Detector applies the segmentation rules.
type Detector struct {
	tocRules []tocRule
}

// New builds a Detector with the standard rule table.
func New() *Detector {
	return &Detector{tocRules: defaultTocRules()}
}

// Next classifies one line and advances the tracker.
func (d *Detector) Next(t *Tracker, raw string) Decision {
	t.Line++
	l := newLine(raw)

	// Markers fire from any state so concatenated books reset cleanly
	if startMarker.MatchString(l.raw) {
		t.State = AfterStart
		t.BlankLines = 0
		return Decision{Action: Drop, Rule: RuleStartMarker, State: t.State}
	}
	if endMarker.MatchString(l.raw) {
		t.State = AfterEnd
		return Decision{Action: Drop, Rule: RuleEndMarker, State: t.State}
	}

	if t.State == BeforeStart || t.State == AfterEnd {
		return Decision{Action: Drop, Rule: RuleOutside, State: t.State}
	}

	if l.trimmed == "" {
		t.BlankLines++
		return Decision{Action: Drop, Rule: RuleBlank, State: t.State}
	}
	t.BlankLines = 0

	if (t.State == AfterStart || t.State == InStory) && tocHeader.MatchString(l.lower) {
		t.State = InToc
		return Decision{Action: Drop, Rule: RuleTocHeader, State: t.State}
	}

	if t.State == InToc {
		for _, r := range d.tocRules {
			if r.match(l) {
				t.State = r.next
				return Decision{Action: r.action, Rule: r.rule, State: t.State}
			}
		}
	}

	return Decision{Action: Emit, Rule: RuleStory, State: t.State}
}
