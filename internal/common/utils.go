package common

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// NewLogger returns the JSON stderr logger every action uses. Quiet mode
// only reports errors.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\(([^\)]+)\)$`)

// SanitizeSource performs basic cleanup on a source argument to handle
// common copy-paste issues: whitespace, markdown links, and stray quotes
// or brackets around URLs.
func SanitizeSource(raw string) string {
	cleaned := strings.TrimSpace(raw)

	// [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	// Trailing punctuation is only stripped from URLs; a local file may
	// legitimately end in ')' or '.'
	if strings.Contains(cleaned, "://") {
		trailingChars := []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"}
		for _, char := range trailingChars {
			cleaned = strings.TrimSuffix(cleaned, char)
		}
	}

	leadingChars := []string{"(", "[", "<", "\"", "'"}
	for _, char := range leadingChars {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// SanitizeSources cleans every source and drops empty ones. Comma-separated
// lists inside a single argument are split.
func SanitizeSources(args []string) []string {
	var out []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if s := SanitizeSource(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
