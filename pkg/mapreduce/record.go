package mapreduce

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedRecord marks a record line the reducer must skip.
var ErrMalformedRecord = errors.New("malformed record")

// Record is one mapper emission. HasYear is set for dimensional records.
type Record struct {
	Word    string
	Year    int
	HasYear bool
	Count   int
}

// String renders the record in its line format.
func (r Record) String() string {
	if r.HasYear {
		return r.Word + "\t" + strconv.Itoa(r.Year) + "\t" + strconv.Itoa(r.Count)
	}
	return r.Word + "\t" + strconv.Itoa(r.Count)
}

// ParseRecord parses one record line for the given mode. Surrounding
// whitespace is ignored; anything else that does not fit the mode is
// reported as ErrMalformedRecord.
func ParseRecord(line string, mode Mode) (Record, error) {
	fields := strings.Split(strings.TrimSpace(line), "\t")
	if len(fields) != mode.Fields() {
		return Record{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, mode.Fields(), len(fields))
	}
	if fields[0] == "" {
		return Record{}, fmt.Errorf("%w: empty key", ErrMalformedRecord)
	}

	rec := Record{Word: fields[0]}
	if mode == ModeDimensional {
		year, err := strconv.Atoi(fields[1])
		if err != nil {
			return Record{}, fmt.Errorf("%w: year %q", ErrMalformedRecord, fields[1])
		}
		rec.Year, rec.HasYear = year, true
	}

	count, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return Record{}, fmt.Errorf("%w: count %q", ErrMalformedRecord, fields[len(fields)-1])
	}
	rec.Count = count
	return rec, nil
}
