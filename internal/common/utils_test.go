package common

import (
	"reflect"
	"testing"
)

func TestSanitizeSource(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  books/moby.txt  ", "books/moby.txt"},
		{"https://www.gutenberg.org/files/2701/2701-0.txt,", "https://www.gutenberg.org/files/2701/2701-0.txt"},
		{"[Moby Dick](https://www.gutenberg.org/ebooks/2701)", "https://www.gutenberg.org/ebooks/2701"},
		{"\"https://example.com/book.html\"", "https://example.com/book.html"},
		{"<https://example.com/book.html>", "https://example.com/book.html"},
		{"notes (draft).", "notes (draft)."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeSource(tt.in); got != tt.want {
			t.Errorf("SanitizeSource(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeSources(t *testing.T) {
	got := SanitizeSources([]string{"a.txt, b.txt", " ", "https://example.com/c.txt."})
	want := []string{"a.txt", "b.txt", "https://example.com/c.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeSources() = %v, want %v", got, want)
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("whale"))
	if len(a) != 64 {
		t.Errorf("ContentHash() length = %d, want 64", len(a))
	}
	if a != ContentHash([]byte("whale")) || a == ContentHash([]byte("whales")) {
		t.Error("ContentHash() is not a stable content hash")
	}
}
