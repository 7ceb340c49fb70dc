// Package parser turns HTML editions of books into plain text lines.
package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// blockSelector lists the elements that become lines of text. Blocks that
// hold other blocks are walked instead, so nested text is not repeated.
const blockSelector = "h1,h2,h3,h4,h5,h6,p,li,pre,tr,blockquote,div"

type Parser struct{}

// Book is the plain-text rendition of an HTML book.
type Book struct {
	Title  string
	Byline string
	Lines  []string
}

// Text joins the book lines with newlines.
func (b *Book) Text() string {
	return strings.Join(b.Lines, "\n")
}

// ParseHTML extracts the text lines of an HTML book. The whole body is kept,
// boilerplate included, because segmentation happens later on the lines.
// Text sitting directly inside an outer block, next to nested blocks, becomes
// its own line in document order. go-readability only contributes title and
// byline metadata.
func (p *Parser) ParseHTML(source, html string) (*Book, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	book := &Book{Title: normalizeText(doc.Find("title").First().Text())}

	// Readability metadata is best effort; the fallback title is enough
	rp := readability.NewParser()
	if article, err := rp.Parse(strings.NewReader(html), sourceURL(source)); err == nil {
		if title := normalizeText(article.Title); title != "" {
			book.Title = title
		}
		book.Byline = normalizeText(article.Byline)
	}

	book.walk(doc.Find("body"))
	return book, nil
}

// walk appends the lines of s in document order. Runs of text and inline
// elements between nested blocks are joined into one line each.
func (b *Book) walk(s *goquery.Selection) {
	var inline strings.Builder
	flush := func() {
		if text := normalizeText(inline.String()); text != "" {
			b.Lines = append(b.Lines, text)
		}
		inline.Reset()
	}

	s.Contents().Each(func(i int, child *goquery.Selection) {
		switch name := goquery.NodeName(child); {
		case name == "#comment", name == "script", name == "style":
			return
		case name == "#text":
			inline.WriteString(child.Text())
		case child.Find(blockSelector).Length() > 0:
			flush()
			b.walk(child)
		case child.Is(blockSelector):
			flush()
			b.leaf(child)
		default:
			inline.WriteString(child.Text())
		}
	})
	flush()
}

// leaf appends the lines of a block that holds no other blocks.
func (b *Book) leaf(s *goquery.Selection) {
	switch goquery.NodeName(s) {
	case "pre":
		b.Lines = append(b.Lines, preLines(s.Text())...)
	case "tr":
		var cells []string
		s.Find("th,td").Each(func(j int, cell *goquery.Selection) {
			if text := normalizeText(cell.Text()); text != "" {
				cells = append(cells, text)
			}
		})
		if len(cells) > 0 {
			b.Lines = append(b.Lines, strings.Join(cells, " "))
		}
	default:
		if text := normalizeText(s.Text()); text != "" {
			b.Lines = append(b.Lines, text)
		}
	}
}

// IsHTML guesses whether a document is HTML from its name, content type, or
// leading bytes.
func IsHTML(name, contentType string, body []byte) bool {
	if strings.Contains(contentType, "html") {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	}

	head := strings.ToLower(strings.TrimSpace(string(body[:min(len(body), 512)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// sourceURL gives readability an absolute URL for both web and local sources.
func sourceURL(source string) *url.URL {
	if u, err := url.Parse(source); err == nil && u.IsAbs() {
		return u
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			// Write the line and a single space for separation
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	// Return the result, trimming the final space
	return strings.TrimSpace(b.String())
}

// preLines keeps preformatted text line by line.
func preLines(input string) []string {
	var lines []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
