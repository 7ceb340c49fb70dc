package mapreduce

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestCompareLines(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"apple\t1", "banana\t1", -1},
		{"whale\t1902\t1", "whale\t1851\t1", 1},
		{"whale\t999\t1", "whale\t1851\t1", -1},
		{"whale\t1851\t1", "whale\t1851\t1", 0},
		{"a\t1", "ab\t1", -1},
		{"badword\tnotanumber", "badword\t1", 1},
	}
	for _, tt := range tests {
		if got := CompareLines(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareLines(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSortInMemory(t *testing.T) {
	in := "whale\t1\nsea\t1\n\nahab\t1\nwhale\t1\n"
	var out bytes.Buffer
	if err := (&Sorter{}).Sort(strings.NewReader(in), &out); err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	want := "ahab\t1\nsea\t1\nwhale\t1\nwhale\t1\n"
	if out.String() != want {
		t.Errorf("Sort() = %q, want %q", out.String(), want)
	}
}

func TestSortSpillsMatchInMemory(t *testing.T) {
	var in strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&in, "w%03d\t%d\t1\n", (i*37)%23, 1800+(i*13)%50)
	}

	var mem bytes.Buffer
	if err := (&Sorter{}).Sort(strings.NewReader(in.String()), &mem); err != nil {
		t.Fatalf("in-memory Sort() error = %v", err)
	}

	dir := t.TempDir()
	var ext bytes.Buffer
	s := &Sorter{ChunkLines: 7, TempDir: dir}
	if err := s.Sort(strings.NewReader(in.String()), &ext); err != nil {
		t.Fatalf("external Sort() error = %v", err)
	}

	if mem.String() != ext.String() {
		t.Error("external sort output differs from in-memory sort")
	}

	lines := strings.Split(strings.TrimSpace(ext.String()), "\n")
	if len(lines) != 200 {
		t.Fatalf("external sort produced %d lines, want 200", len(lines))
	}
	for i := 1; i < len(lines); i++ {
		if CompareLines(lines[i-1], lines[i]) > 0 {
			t.Fatalf("lines %d and %d out of order: %q > %q", i-1, i, lines[i-1], lines[i])
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("sort left %d run files behind", len(entries))
	}
}

func TestPartition(t *testing.T) {
	for _, w := range []string{"whale", "sea", "ahab", "ishmael"} {
		p := Partition(w, 4)
		if p < 0 || p >= 4 {
			t.Errorf("Partition(%q, 4) = %d, out of range", w, p)
		}
		if again := Partition(w, 4); again != p {
			t.Errorf("Partition(%q) not stable: %d then %d", w, p, again)
		}
	}
	if Partition("whale", 1) != 0 || Partition("whale", 0) != 0 {
		t.Error("Partition() with a single partition must return 0")
	}
	if got := RecordKey("whale\t1851\t1"); got != "whale" {
		t.Errorf("RecordKey() = %q, want whale", got)
	}
}
