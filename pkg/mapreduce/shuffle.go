package mapreduce

import (
	"bufio"
	"container/heap"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// DefaultChunkLines is how many record lines are sorted in memory before a
// run is spilled to disk.
const DefaultChunkLines = 1 << 20

// Sorter is the grouping stage: an external sort of record lines by word,
// then year. Inputs larger than ChunkLines are sorted in runs that spill to
// TempDir and are merged back.
type Sorter struct {
	ChunkLines int
	TempDir    string
}

// CompareLines orders record lines by their first field, then numerically by
// the year field of three-field lines, then by the raw text. Malformed lines
// take part in the same order and are left for the reducer to skip.
func CompareLines(a, b string) int {
	ak, arest, _ := strings.Cut(a, "\t")
	bk, brest, _ := strings.Cut(b, "\t")
	if c := strings.Compare(ak, bk); c != 0 {
		return c
	}

	ay, aok := yearField(arest)
	by, bok := yearField(brest)
	if aok && bok && ay != by {
		if ay < by {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// yearField returns the year of the "<year>\t<count>" remainder of a
// dimensional line.
func yearField(rest string) (int, bool) {
	y, count, ok := strings.Cut(rest, "\t")
	if !ok || strings.Contains(count, "\t") {
		return 0, false
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, false
	}
	return year, true
}

func sortLines(lines []string) {
	sort.SliceStable(lines, func(i, j int) bool {
		return CompareLines(lines[i], lines[j]) < 0
	})
}

// Sort reads all record lines from r and writes them to w in key order.
// Blank lines are dropped.
func (s *Sorter) Sort(r io.Reader, w io.Writer) error {
	limit := s.ChunkLines
	if limit <= 0 {
		limit = DefaultChunkLines
	}

	var (
		chunk []string
		runs  []string
	)
	defer func() {
		for _, name := range runs {
			_ = os.Remove(name)
		}
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		chunk = append(chunk, line)
		if len(chunk) >= limit {
			name, err := s.spill(chunk)
			if err != nil {
				return err
			}
			runs = append(runs, name)
			chunk = chunk[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	bw := bufio.NewWriter(w)

	// Everything fit in memory
	if len(runs) == 0 {
		sortLines(chunk)
		for _, line := range chunk {
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return fmt.Errorf("failed to write records: %w", err)
			}
		}
		return bw.Flush()
	}

	if len(chunk) > 0 {
		name, err := s.spill(chunk)
		if err != nil {
			return err
		}
		runs = append(runs, name)
	}

	if err := mergeRuns(runs, bw); err != nil {
		return err
	}
	return bw.Flush()
}

// spill sorts chunk and writes it to a temporary run file.
func (s *Sorter) spill(chunk []string) (string, error) {
	sortLines(chunk)

	f, err := os.CreateTemp(s.TempDir, "shuffle-*.run")
	if err != nil {
		return "", fmt.Errorf("failed to create sort run: %w", err)
	}
	bw := bufio.NewWriter(f)
	for _, line := range chunk {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			f.Close()
			return f.Name(), fmt.Errorf("failed to write sort run: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return f.Name(), fmt.Errorf("failed to write sort run: %w", err)
	}
	if err := f.Close(); err != nil {
		return f.Name(), fmt.Errorf("failed to close sort run: %w", err)
	}
	return f.Name(), nil
}

// runCursor is the head line of one sorted run.
type runCursor struct {
	line    string
	index   int
	scanner *bufio.Scanner
}

type runHeap []*runCursor

func (h runHeap) Len() int { return len(h) }
func (h runHeap) Less(i, j int) bool {
	if c := CompareLines(h[i].line, h[j].line); c != 0 {
		return c < 0
	}
	return h[i].index < h[j].index
}
func (h runHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *runHeap) Push(x any)   { *h = append(*h, x.(*runCursor)) }
func (h *runHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// mergeRuns k-way merges sorted run files into w.
func mergeRuns(names []string, w io.Writer) error {
	h := make(runHeap, 0, len(names))
	for i, name := range names {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open sort run: %w", err)
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
		if sc.Scan() {
			h = append(h, &runCursor{line: sc.Text(), index: i, scanner: sc})
		} else if err := sc.Err(); err != nil {
			return fmt.Errorf("failed to read sort run: %w", err)
		}
	}
	heap.Init(&h)

	for h.Len() > 0 {
		c := h[0]
		if _, err := io.WriteString(w, c.line+"\n"); err != nil {
			return fmt.Errorf("failed to write records: %w", err)
		}
		if c.scanner.Scan() {
			c.line = c.scanner.Text()
			heap.Fix(&h, 0)
			continue
		}
		if err := c.scanner.Err(); err != nil {
			return fmt.Errorf("failed to read sort run: %w", err)
		}
		heap.Pop(&h)
	}
	return nil
}
