// Package tokenizer turns admitted lines of book text into normalized words.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kljensen/snowball"
)

// MinWordLength is the shortest word that is counted.
const MinWordLength = 3

// tokenPattern extracts runs of letters and apostrophes. Hyphens, digits and
// typographic quotes all act as separators.
var tokenPattern = regexp.MustCompile(`[A-Za-z']+`)

// possessivePattern matches possessive forms of names that must be counted
// under their root instead of being rejected by the alphabetic check.
var possessivePattern = regexp.MustCompile(`(?i)^'?(holmes|watson|lestrade|hudson|moriarty|ahab|ishmael)'s?'?$`)

// punctuation is stripped from both ends of every token: ASCII punctuation
// plus typographic quotes and dashes.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~" + "“”‘’—–"

// Options controls optional normalization steps.
type Options struct {
	// Stem reduces each accepted word to its Snowball English stem.
	Stem bool
}

// Tokenizer is immutable after construction and safe for concurrent use.
type Tokenizer struct {
	stem bool
}

// New creates a Tokenizer.
func New(opts Options) *Tokenizer {
	return &Tokenizer{stem: opts.Stem}
}

// Tokens returns the raw letter/apostrophe runs of a line, left to right.
func Tokens(line string) []string {
	return tokenPattern.FindAllString(line, -1)
}

// Tokenize returns the normalized words of a line in order.
func (t *Tokenizer) Tokenize(line string) []string {
	raw := Tokens(line)
	if len(raw) == 0 {
		return nil
	}

	words := make([]string, 0, len(raw))
	for _, token := range raw {
		if word, ok := t.Normalize(token); ok {
			words = append(words, word)
		}
	}
	return words
}

// Normalize cleans a single token. It returns false when the token must not
// be counted.
func (t *Tokenizer) Normalize(token string) (string, bool) {
	word, ok := Clean(token)
	if !ok {
		return "", false
	}
	return t.Stem(word), true
}

// Clean lowercases and filters a single token without stemming it. Word lists
// such as the TOC rescue set are matched against this form.
func Clean(token string) (string, bool) {
	// Possessive names skip generic cleaning entirely
	if m := possessivePattern.FindStringSubmatch(token); m != nil {
		return strings.ToLower(m[1]), true
	}

	word := strings.ToLower(strings.Trim(token, punctuation))
	if word == "" || utf8.RuneCountInString(word) < MinWordLength {
		return "", false
	}
	if IsStopword(word) || !isAlpha(word) {
		return "", false
	}
	return word, true
}

// Stem applies the optional stemming step to a cleaned word.
func (t *Tokenizer) Stem(word string) string {
	if !t.stem {
		return word
	}
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil || stemmed == "" {
		// If stemming fails, use the original word
		return word
	}
	return stemmed
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
