// Package corpus loads books and the side inputs (vocabulary, metadata
// blocks) that the counting pipeline consumes.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dtnitsch/book-wordfreq/pkg/fetcher"
	"github.com/dtnitsch/book-wordfreq/pkg/parser"
)

// bookExtensions are picked up when a directory is given as a source.
var bookExtensions = map[string]bool{".txt": true, ".html": true, ".htm": true}

// Document is one loaded source. Body is always plain text lines.
type Document struct {
	Source string
	Title  string
	Byline string
	HTML   bool
	Body   []byte
}

// Loader resolves sources (files, directories, URLs) to documents.
type Loader struct {
	Fetcher *fetcher.Fetcher
	Parser  *parser.Parser
}

// NewLoader creates a Loader with a default fetcher and parser.
func NewLoader() *Loader {
	return &Loader{Fetcher: fetcher.NewFetcher(), Parser: &parser.Parser{}}
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Expand replaces each directory in sources with the book files it contains,
// sorted by name. Files and URLs are passed through unchanged.
func Expand(sources []string) ([]string, error) {
	var out []string
	for _, src := range sources {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		if IsRemote(src) {
			out = append(out, src)
			continue
		}

		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("failed to stat source %s: %w", src, err)
		}
		if !info.IsDir() {
			out = append(out, src)
			continue
		}

		entries, err := os.ReadDir(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", src, err)
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() || !bookExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			files = append(files, filepath.Join(src, e.Name()))
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

// Load reads a single source and converts HTML books to text lines.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	var (
		body        []byte
		contentType string
	)

	if IsRemote(source) {
		resp, err := l.Fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		body, contentType = resp.Body, resp.ContentType
	} else {
		data, err := os.ReadFile(filepath.Clean(source))
		if err != nil {
			return nil, fmt.Errorf("error reading file: %w", err)
		}
		body = data
	}

	doc := &Document{Source: source, Title: filepath.Base(source), Body: body}
	if !parser.IsHTML(source, contentType, body) {
		return doc, nil
	}

	book, err := l.Parser.ParseHTML(source, string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML book %s: %w", source, err)
	}
	doc.HTML = true
	doc.Body = []byte(book.Text())
	doc.Byline = book.Byline
	if book.Title != "" {
		doc.Title = book.Title
	}
	return doc, nil
}
