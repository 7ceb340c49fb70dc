package detector

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var headingPrefixes = []string{"chapter ", "part ", "book ", "phase ", "section "}

// tocEntryPatterns match the shape of a numbered contents entry.
var tocEntryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[ivxlc]+\.?\s`),
	regexp.MustCompile(`^\d+\.?\s`),
	regexp.MustCompile(`^chapter\s+[ivxlc\d]+`),
	regexp.MustCompile(`^part\s+[ivxlc\d]+`),
	regexp.MustCompile(`^prologue`),
	regexp.MustCompile(`^epilogue`),
	regexp.MustCompile(`^appendix`),
	regexp.MustCompile(`^preface`),
	regexp.MustCompile(`^introduction`),
}

var (
	dialogueCue = regexp.MustCompile(`\b(said|says|asked|replied|cried)\b|\bi think\b`)
	manWord     = regexp.MustCompile(`\bman\b`)
)

// terminalSuffixes end a sentence; a contents entry rarely does.
var terminalSuffixes = []string{".", "?", "!", `"`, "'", "”", "’"}

// defaultTocRules is evaluated top to bottom while inside a table of
// contents. The last rule always matches.
func defaultTocRules() []tocRule {
	return []tocRule{
		{rule: RuleHeading, match: isHeading, action: Rescue, next: InToc},
		{rule: RuleNarrator, match: isNarratorNoise, action: Drop, next: InToc},
		{rule: RulePunctuation, match: endsSentence, action: Emit, next: InStory},
		{rule: RuleKeyword, match: hasStoryKeyword, action: Emit, next: InStory},
		{rule: RuleLength, match: isLong, action: Emit, next: InStory},
		{rule: RuleTocDefault, match: func(line) bool { return true }, action: Rescue, next: InToc},
	}
}

func isHeading(l line) bool {
	for _, p := range headingPrefixes {
		if strings.HasPrefix(l.lower, p) {
			return true
		}
	}
	return false
}

// IsTocEntry reports whether text looks like a numbered contents entry.
func IsTocEntry(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range tocEntryPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

func isNarratorNoise(l line) bool {
	return IsTocEntry(l.trimmed) && dialogueCue.MatchString(l.lower)
}

func endsSentence(l line) bool {
	for _, s := range terminalSuffixes {
		if strings.HasSuffix(l.trimmed, s) {
			return true
		}
	}
	return false
}

func hasStoryKeyword(l line) bool {
	return strings.Contains(l.lower, "holmes") ||
		manWord.MatchString(l.lower) ||
		strings.HasSuffix(l.lower, "time") ||
		strings.Contains(l.lower, "house") ||
		strings.Contains(l.lower, "like")
}

func isLong(l line) bool {
	return utf8.RuneCountInString(l.raw) > TocLineLimit
}
