// Package language guards a run against books that are not in English.
// Stop words and possessive rules only make sense for English text, so a
// run can skip documents whose sampled text detects as another language.
package language

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// MinSampleRunes is the shortest sample worth classifying. Anything shorter
// is accepted as English.
const MinSampleRunes = 40

// candidates are the languages most common in public-domain book archives.
var candidates = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Latin,
}

// Guard classifies text samples. The underlying detector loads its models
// on first use and is shared by all goroutines.
type Guard struct {
	once     sync.Once
	mu       sync.Mutex
	detector lingua.LanguageDetector
}

// NewGuard returns a Guard. Models are not loaded until Detect is called.
func NewGuard() *Guard {
	return &Guard{}
}

func (g *Guard) load() {
	g.once.Do(func() {
		g.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build()
	})
}

// Detect returns the lowercase name of the language of text (e.g.,
// "english") and whether detection was reliable.
func (g *Guard) Detect(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	g.load()

	g.mu.Lock()
	lang, ok := g.detector.DetectLanguageOf(text)
	g.mu.Unlock()
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.String()), true
}

// IsEnglish reports whether text should be counted by an English-only run.
// Short or unclassifiable samples are let through.
func (g *Guard) IsEnglish(text string) (bool, string) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinSampleRunes {
		return true, ""
	}
	lang, ok := g.Detect(text)
	if !ok {
		return true, ""
	}
	return lang == "english", lang
}
