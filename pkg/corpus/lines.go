package corpus

import (
	"bufio"
	"io"
)

// MaxLineBytes bounds a single input line.
const MaxLineBytes = 4 * 1024 * 1024

// LineRecord is one line of a document with its 1-based position.
type LineRecord struct {
	Number int
	Text   string
}

// ScanLines calls fn for each line of r in order. It stops at the first
// error returned by fn.
func ScanLines(r io.Reader, fn func(LineRecord) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxLineBytes)

	n := 0
	for scanner.Scan() {
		n++
		if err := fn(LineRecord{Number: n, Text: scanner.Text()}); err != nil {
			return err
		}
	}
	return scanner.Err()
}
