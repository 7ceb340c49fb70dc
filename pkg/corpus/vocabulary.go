package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoVocabulary is returned when dimensional counting has no key space.
var ErrNoVocabulary = errors.New("vocabulary is required for dimensional counting")

// Vocabulary is the fixed set of words the dimensional mapper emits.
type Vocabulary map[string]struct{}

// Contains reports whether word is part of the vocabulary.
func (v Vocabulary) Contains(word string) bool {
	_, ok := v[word]
	return ok
}

// Len returns the number of distinct words.
func (v Vocabulary) Len() int {
	return len(v)
}

// LoadVocabulary reads a vocabulary file of "<word>\t<anything>" lines.
// The output of a unigram run ("word\tcount") is a valid vocabulary file.
func LoadVocabulary(path string) (Vocabulary, error) {
	if path == "" {
		return nil, fmt.Errorf("no vocabulary file configured: %w", ErrNoVocabulary)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()

	vocab, err := ReadVocabulary(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file %s: %w", path, err)
	}
	return vocab, nil
}

// ReadVocabulary parses vocabulary lines from r. Only the first tab-separated
// field of each non-blank line is used.
func ReadVocabulary(r io.Reader) (Vocabulary, error) {
	vocab := make(Vocabulary)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		word, _, _ := strings.Cut(line, "\t")
		if word = strings.TrimSpace(word); word != "" {
			vocab[word] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(vocab) == 0 {
		return nil, fmt.Errorf("vocabulary has no words: %w", ErrNoVocabulary)
	}
	return vocab, nil
}
