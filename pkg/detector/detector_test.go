package detector

import (
	"strings"
	"testing"
)

type step struct {
	line   string
	action Action
	rule   Rule
	state  State
}

func runSteps(t *testing.T, steps []step) *Tracker {
	t.Helper()
	d := New()
	tr := NewTracker()
	for i, s := range steps {
		got := d.Next(tr, s.line)
		if got.Action != s.action || got.Rule != s.rule || got.State != s.state {
			t.Errorf("line %d %q: got (%s, %s, %s), want (%s, %s, %s)",
				i+1, s.line, got.Action, got.Rule, got.State, s.action, s.rule, s.state)
		}
	}
	return tr
}

func TestBoundaryScenario(t *testing.T) {
	tr := runSteps(t, []step{
		{"*** START OF EXAMPLE", Drop, RuleStartMarker, AfterStart},
		{"Contents", Drop, RuleTocHeader, InToc},
		{"  I. The Beginning", Rescue, RuleTocDefault, InToc},
		{"Holmes walked into the room and said nothing.", Emit, RulePunctuation, InStory},
		{"*** END OF EXAMPLE", Drop, RuleEndMarker, AfterEnd},
	})
	if tr.Line != 5 {
		t.Errorf("tracker.Line = %d, want 5", tr.Line)
	}
}

func TestOutsideMarkers(t *testing.T) {
	runSteps(t, []step{
		{"The Project Gutenberg eBook of Example.", Drop, RuleOutside, BeforeStart},
		{"", Drop, RuleOutside, BeforeStart},
		{"***START OF THE PROJECT GUTENBERG EBOOK", Drop, RuleStartMarker, AfterStart},
		{"It was a dark night.", Emit, RuleStory, AfterStart},
		{"*** end of the project gutenberg ebook", Drop, RuleEndMarker, AfterEnd},
		{"License text follows here.", Drop, RuleOutside, AfterEnd},
	})
}

func TestConcatenatedDocumentsReset(t *testing.T) {
	runSteps(t, []step{
		{"*** START OF BOOK ONE", Drop, RuleStartMarker, AfterStart},
		{"Contents", Drop, RuleTocHeader, InToc},
		{"*** START OF BOOK TWO", Drop, RuleStartMarker, AfterStart},
		{"Second book text", Emit, RuleStory, AfterStart},
	})
}

func TestTocRules(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("abc ", 20))

	tests := []struct {
		name   string
		line   string
		action Action
		rule   Rule
		state  State
	}{
		{"heading skip", "Chapter II. The House", Rescue, RuleHeading, InToc},
		{"heading with indentation", "   PART III", Rescue, RuleHeading, InToc},
		{"narrator noise", "II. I said to him", Drop, RuleNarrator, InToc},
		{"narrator noise with think", "12 Yes, I think so.", Drop, RuleNarrator, InToc},
		{"punctuation exit", "It was late.", Emit, RulePunctuation, InStory},
		{"closing quote exit", "“Come in”", Emit, RulePunctuation, InStory},
		{"keyword exit holmes", "A Scandal for Holmes", Emit, RuleKeyword, InStory},
		{"keyword exit man", "The Man with the Twisted Lip", Emit, RuleKeyword, InStory},
		{"keyword exit time", "Once upon a time", Emit, RuleKeyword, InStory},
		{"length exit", long, Emit, RuleLength, InStory},
		{"default garbage", "IV. The Red-Headed League", Rescue, RuleTocDefault, InToc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			tr := &Tracker{State: InToc}
			got := d.Next(tr, tt.line)
			if got.Action != tt.action || got.Rule != tt.rule || got.State != tt.state {
				t.Errorf("Next(%q) = (%s, %s, %s), want (%s, %s, %s)",
					tt.line, got.Action, got.Rule, got.State, tt.action, tt.rule, tt.state)
			}
			if tr.State != tt.state {
				t.Errorf("tracker.State = %s, want %s", tr.State, tt.state)
			}
		})
	}
}

func TestSecondaryTocFromStory(t *testing.T) {
	runSteps(t, []step{
		{"*** START OF EXAMPLE", Drop, RuleStartMarker, AfterStart},
		{"The story begins here.", Emit, RuleStory, AfterStart},
		{"List of Illustrations", Drop, RuleTocHeader, InToc},
		{"Frontispiece", Rescue, RuleTocDefault, InToc},
		{"The story resumes.", Emit, RulePunctuation, InStory},
		{"TABLE OF CONTENTS:", Drop, RuleTocHeader, InToc},
	})
}

func TestTocHeaderOnlyWhenExact(t *testing.T) {
	runSteps(t, []step{
		{"*** START OF EXAMPLE", Drop, RuleStartMarker, AfterStart},
		{"The contents of the box were strange", Emit, RuleStory, AfterStart},
		{"  Index  ", Drop, RuleTocHeader, InToc},
	})
}

func TestBlankLinesCounted(t *testing.T) {
	d := New()
	tr := NewTracker()
	d.Next(tr, "*** START OF EXAMPLE")
	d.Next(tr, "")
	d.Next(tr, "   ")
	if tr.BlankLines != 2 {
		t.Fatalf("BlankLines = %d, want 2", tr.BlankLines)
	}
	d.Next(tr, "Text")
	if tr.BlankLines != 0 {
		t.Errorf("BlankLines after content = %d, want 0", tr.BlankLines)
	}
}

func TestIsTocEntry(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"XIV. The Return", true},
		{"12 Baker Street", true},
		{"Chapter 7", true},
		{"Prologue", true},
		{"Holmes said nothing", false},
		{"Introductory remarks", false},
	}
	for _, tt := range tests {
		if got := IsTocEntry(tt.text); got != tt.want {
			t.Errorf("IsTocEntry(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestDetectorsAreIndependent(t *testing.T) {
	d := New()
	a, b := NewTracker(), NewTracker()
	d.Next(a, "*** START OF A")
	d.Next(a, "Contents")
	d.Next(b, "*** START OF B")
	if a.State != InToc || b.State != AfterStart {
		t.Errorf("states = (%s, %s), want (in_toc, after_start)", a.State, b.State)
	}
}
